package logger

import (
	"testing"

	"pdf-quiz/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGet_BeforeInitialize(t *testing.T) {
	log = nil
	l := Get()
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("not initialized") })
	assert.NoError(t, Sync())
}

func TestInitialize_Levels(t *testing.T) {
	t.Cleanup(func() { log = nil })

	require.NoError(t, Initialize(config.LoggerConfig{Level: "debug", Env: "production"}))
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Initialize(config.LoggerConfig{Level: "warn"}))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, Initialize(config.LoggerConfig{}))
	assert.True(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, Get().Core().Enabled(zapcore.DebugLevel))
}

func TestInitialize_InvalidLevel(t *testing.T) {
	t.Cleanup(func() { log = nil })
	assert.Error(t, Initialize(config.LoggerConfig{Level: "loud"}))
}

func TestInitialize_StderrOutput(t *testing.T) {
	t.Cleanup(func() { log = nil })
	require.NoError(t, Initialize(config.LoggerConfig{Level: "info", Output: "stderr"}))
	assert.NotPanics(t, func() { Get().Info("to stderr") })
}
