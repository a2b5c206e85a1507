package config

import (
	"go.uber.org/zap"
)

// setLogger picks the zap preset for the environment. Anything other than
// development or production is treated as a local run.
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		return cfg.Build()
	}
}
