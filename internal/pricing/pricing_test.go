package pricing

import (
	"testing"

	"github.com/petshop/storefront/internal/domain"
)

func TestPriceByRole(t *testing.T) {
	tests := []struct {
		name string
		role domain.UserRole
		base float64
		want float64
	}{
		{name: "consumer markup", role: domain.UserRoleConsumer, base: 100, want: 110},
		{name: "shop discount", role: domain.UserRoleShop, base: 100, want: 90},
		{name: "distributor discount", role: domain.UserRoleDistributor, base: 100, want: 80},
		{name: "admin base price", role: domain.UserRoleAdmin, base: 100, want: 100},
		{name: "unknown role treated as consumer", role: domain.UserRole("vip"), base: 100, want: 110},
		{name: "rounds to cents", role: domain.UserRoleConsumer, base: 33.33, want: 36.66},
		{name: "zero base", role: domain.UserRoleDistributor, base: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriceByRole(tt.role, tt.base); got != tt.want {
				t.Errorf("PriceByRole(%v, %v) = %v, want %v", tt.role, tt.base, got, tt.want)
			}
		})
	}
}

func TestGetDiscountPercentage(t *testing.T) {
	tests := []struct {
		name string
		role domain.UserRole
		want int
	}{
		{name: "consumer pays above base", role: domain.UserRoleConsumer, want: 0},
		{name: "shop", role: domain.UserRoleShop, want: 10},
		{name: "distributor", role: domain.UserRoleDistributor, want: 20},
		{name: "admin", role: domain.UserRoleAdmin, want: 0},
		{name: "unknown role", role: domain.UserRole(""), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetDiscountPercentage(tt.role); got != tt.want {
				t.Errorf("GetDiscountPercentage(%v) = %d, want %d", tt.role, got, tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{price: 0, want: "R$ 0,00"},
		{price: 9.9, want: "R$ 9,90"},
		{price: 1234.56, want: "R$ 1.234,56"},
		{price: 1000000, want: "R$ 1.000.000,00"},
		{price: 89.9, want: "R$ 89,90"},
		{price: -45.5, want: "-R$ 45,50"},
		{price: 0.005, want: "R$ 0,01"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatPrice(tt.price); got != tt.want {
				t.Errorf("FormatPrice(%v) = %q, want %q", tt.price, got, tt.want)
			}
		})
	}
}

func TestFormatWeight(t *testing.T) {
	tests := []struct {
		kg   float64
		want string
	}{
		{kg: 0.5, want: "500g"},
		{kg: 0.075, want: "75g"},
		{kg: 1, want: "1.0kg"},
		{kg: 15, want: "15.0kg"},
		{kg: 2.55, want: "2.5kg"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatWeight(tt.kg); got != tt.want {
				t.Errorf("FormatWeight(%v) = %q, want %q", tt.kg, got, tt.want)
			}
		})
	}
}
