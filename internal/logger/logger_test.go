package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Output: &buf})

	l.Info("look generated", Fields{"fixtures": 3, "operation": "generate_look"})
	l.Warn("pattern store unavailable", nil)
	l.Error("completion failed", errors.New("boom"), Fields{"model": "gpt-4o"})

	out := buf.String()
	assert.Contains(t, out, "[INFO] look generated fixtures=3 operation=generate_look")
	assert.Contains(t, out, "[WARN] pattern store unavailable")
	assert.Contains(t, out, "[ERROR] completion failed: boom model=gpt-4o")
}

func TestLogger_DebugSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Output: &buf}).Debug("hidden", nil)
	assert.Empty(t, buf.String())

	New(Options{Output: &buf, Debug: true}).Debug("shown", Fields{"k": "v"})
	assert.True(t, strings.Contains(buf.String(), "[DEBUG] shown k=v"))
}

func TestNop(t *testing.T) {
	l := Nop()
	// Must not panic without a Sentry hub.
	l.Info("x", nil)
	l.Error("x", errors.New("y"), nil)
}

func TestFormatFields_Sorted(t *testing.T) {
	assert.Equal(t, " a=1 b=2", formatFields(Fields{"b": 2, "a": 1}))
	assert.Equal(t, "", formatFields(nil))
}
