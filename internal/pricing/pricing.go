// Package pricing applies per-role price adjustment to base prices.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/petshop/storefront/internal/domain"
)

// multipliers maps each user class to its price adjustment. Consumers pay
// a markup, shops and distributors buy below base, admins see base price.
var multipliers = map[domain.UserRole]float64{
	domain.UserRoleConsumer:    1.10,
	domain.UserRoleShop:        0.90,
	domain.UserRoleDistributor: 0.80,
	domain.UserRoleAdmin:       1.00,
}

// Multiplier returns the role's price multiplier. Unknown roles fall back
// to the consumer multiplier.
func Multiplier(role domain.UserRole) float64 {
	if m, ok := multipliers[role]; ok {
		return m
	}
	return multipliers[domain.UserRoleConsumer]
}

// PriceByRole returns the display price for a role, rounded to 2 decimal
// places. Pure and total: any role yields a price.
func PriceByRole(role domain.UserRole, base float64) float64 {
	return math.Round(base*Multiplier(role)*100) / 100
}

// GetDiscountPercentage returns the whole-percent discount a role enjoys
// relative to base price, or 0 when the role pays base or above.
func GetDiscountPercentage(role domain.UserRole) int {
	m := Multiplier(role)
	if m >= 1 {
		return 0
	}
	return int(math.Round((1 - m) * 100))
}

// FormatPrice renders a price in Brazilian Real notation: R$ 1.234,56.
func FormatPrice(price float64) string {
	neg := price < 0
	cents := int64(math.Round(math.Abs(price) * 100))
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), frac)
}

// FormatWeight renders a weight in kilograms as grams below 1kg and as
// kilograms with one decimal otherwise.
func FormatWeight(kg float64) string {
	if kg < 1 {
		return fmt.Sprintf("%dg", int(math.Round(kg*1000)))
	}
	return fmt.Sprintf("%.1fkg", kg)
}
