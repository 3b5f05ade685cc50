package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitializeLevels(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, Initialize(Options{})) })

	require.NoError(t, Initialize(Options{Level: "debug"}))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Initialize(Options{}))
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, Initialize(Options{Level: "error", JSON: true}))
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestInitializeRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Initialize(Options{Level: "loud"}))
}

func TestNamed(t *testing.T) {
	require.NotNil(t, Named("expand"))
}
