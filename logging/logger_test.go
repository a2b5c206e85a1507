package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewQuietByDefault(t *testing.T) {
	l := New(false)
	assert.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestNewVerbose(t *testing.T) {
	l := New(true)
	assert.True(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
}
