// Package logger builds the application zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger configured for the given environment.
// In dev the console encoding with colored levels is the default; in prod
// structured JSON is enforced regardless of the requested encoding.
func New(env, level, encoding, appName, appVersion string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
	} else {
		cfg = zap.NewDevelopmentConfig()
		if encoding != "" {
			cfg.Encoding = encoding
		}
		if cfg.Encoding == "console" {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	lg, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return lg.With(
		zap.String("app", appName),
		zap.String("version", appVersion),
	), nil
}
