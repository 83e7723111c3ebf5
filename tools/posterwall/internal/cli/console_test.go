package cli

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestConsole_Levels(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	c := NewWithWriter(&buf, false)

	c.Info("plain %d", 1)
	c.Success("done")
	c.Warn("careful")
	c.Error("broken: %s", "x")

	assert.Equal(t, "plain 1\n✓ done\n! careful\n✗ broken: x\n", buf.String())
}

func TestConsole_QuietKeepsErrors(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	c := NewWithWriter(&buf, true)

	c.Info("hidden")
	c.Success("hidden")
	c.Warn("hidden")
	c.StartProgress("hidden")
	c.UpdateProgress("hidden")
	c.StopProgress()
	c.Error("shown")

	assert.True(t, c.Quiet())
	assert.Equal(t, "✗ shown\n", buf.String())
}

func TestSpinner_Wraps(t *testing.T) {
	s := newSpinner()
	first := s.next()
	for i := 1; i < len(s.frames); i++ {
		s.next()
	}
	assert.Equal(t, first, s.next())
}
