package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"buildnchill-server/internal/config"
)

func TestNewHonorsLevel(t *testing.T) {
	logger, err := New(config.Log{Level: "warn", Format: "json"}, "production")
	require.NoError(t, err)
	defer logger.Sync()

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewDebugLevel(t *testing.T) {
	logger, err := New(config.Log{Level: "debug", Format: "console"}, "development")
	require.NoError(t, err)
	defer logger.Sync()

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.Log{Level: "loud", Format: "json"}, "production")
	assert.Error(t, err)
}
