package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

func TestLogger(t *testing.T) {
	t.Run("formats messages with component field", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := Wrap(zap.New(core), "deck")

		logger.Info("generated %d slides", 4)
		logger.Success("done")

		entries := logs.All()
		require.Len(t, entries, 2)
		assert.Equal(t, "generated 4 slides", entries[0].Message)
		assert.Equal(t, "deck", entries[0].ContextMap()["component"])
		assert.Equal(t, "success", entries[1].ContextMap()["outcome"])
	})

	t.Run("named child keeps level", func(t *testing.T) {
		logger, err := New(entities.LoggingConfig{Level: "warn"})
		require.NoError(t, err)

		child := logger.Named("http")
		assert.Equal(t, "http", child.Component())
		assert.False(t, child.level.Enabled(zapcore.InfoLevel))

		logger.SetLevel(entities.LogLevelDebug)
		assert.True(t, child.level.Enabled(zapcore.DebugLevel))
	})

	t.Run("verbose forces debug", func(t *testing.T) {
		logger, err := New(entities.LoggingConfig{Level: "error", Verbose: true, JSONFormat: true})
		require.NoError(t, err)
		assert.True(t, logger.level.Enabled(zapcore.DebugLevel))
	})

	t.Run("nop logger", func(t *testing.T) {
		logger := NewNop()
		assert.NotPanics(t, func() {
			logger.Error("ignored %s", "value")
			logger.Sync()
		})
	})
}

func TestToZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, toZapLevel(entities.LogLevelDebug))
	assert.Equal(t, zapcore.InfoLevel, toZapLevel(entities.LogLevelInfo))
	assert.Equal(t, zapcore.WarnLevel, toZapLevel(entities.LogLevelWarn))
	assert.Equal(t, zapcore.ErrorLevel, toZapLevel(entities.LogLevelError))
	assert.Equal(t, zapcore.InfoLevel, toZapLevel("bogus"))
}
