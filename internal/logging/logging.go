// Package logging builds the zap logger from LOG_LEVEL and LOG_FORMAT.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"buildnchill-server/internal/config"
)

// New returns a logger honoring cfg. Format "console" (or a development
// environment with no explicit format) gets the human-readable encoder;
// everything else logs JSON.
func New(cfg config.Log, environment string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "console" || (cfg.Format == "" && environment == "development") {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
