package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/capoala/mvvm/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LogConfig
		level zapcore.Level
	}{
		{name: "production info", cfg: config.LogConfig{Level: "info"}, level: zapcore.InfoLevel},
		{name: "development debug", cfg: config.LogConfig{Level: "debug", Development: true}, level: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.level))
			assert.False(t, logger.Core().Enabled(tt.level-1))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "chatty"})
	assert.ErrorContains(t, err, "invalid log level")
}

func TestNewLeveled_AdjustsAfterBuild(t *testing.T) {
	logger, level, err := NewLeveled(config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	level.SetLevel(zapcore.DebugLevel)

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestMustNew_FallsBackToNop(t *testing.T) {
	logger := MustNew(config.LogConfig{Level: "chatty"})
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.FatalLevel))
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, zapcore.DebugLevel)

	logger.Debug("property changed", zap.String("property", "FirstName"))

	assert.Contains(t, buf.String(), "property changed")
	assert.Contains(t, buf.String(), "FirstName")
}
