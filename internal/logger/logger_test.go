package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level, env string
		enabled    zapcore.Level
		disabled   zapcore.Level
	}{
		{"debug", "development", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn", "production", zapcore.WarnLevel, zapcore.InfoLevel},
		{"bogus", "development", zapcore.InfoLevel, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.env, func(t *testing.T) {
			log, err := New(tt.level, tt.env)
			require.NoError(t, err)
			core := log.Desugar().Core()
			assert.True(t, core.Enabled(tt.enabled))
			assert.False(t, core.Enabled(tt.disabled))
		})
	}
}
