package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Console manages styled and dynamic CLI output.
type Console struct {
	mu         sync.Mutex // mu protects the spinner state and the writer.
	out        io.Writer  // out receives every console line; stderr by default.
	spinner    *spinner
	spinnerMsg string
	isSpinning bool
	isQuiet    bool // isQuiet suppresses everything but errors.

	Bold   *color.Color
	Green  *color.Color
	Yellow *color.Color
	Red    *color.Color
	Cyan   *color.Color
	Gray   *color.Color
}

// New creates a new Console writing to stderr.
func New(quiet bool) *Console {
	return NewWithWriter(os.Stderr, quiet)
}

// NewWithWriter creates a new Console writing to w.
func NewWithWriter(w io.Writer, quiet bool) *Console {
	return &Console{
		out:     w,
		isQuiet: quiet,
		Bold:    color.New(color.Bold),
		Green:   color.New(color.FgGreen),
		Yellow:  color.New(color.FgYellow),
		Red:     color.New(color.FgRed),
		Cyan:    color.New(color.FgCyan),
		Gray:    color.New(color.FgHiBlack),
	}
}

// Quiet reports whether the console suppresses non-error output.
func (c *Console) Quiet() bool { return c.isQuiet }

// Info prints a standard informational message.
func (c *Console) Info(format string, a ...interface{}) {
	if c.isQuiet {
		return
	}
	c.print(nil, "", format, a...)
}

// Success prints a success message.
func (c *Console) Success(format string, a ...interface{}) {
	if c.isQuiet {
		return
	}
	c.print(c.Green, "✓ ", format, a...)
}

// Warn prints a warning message.
func (c *Console) Warn(format string, a ...interface{}) {
	if c.isQuiet {
		return
	}
	c.print(c.Yellow, "! ", format, a...)
}

// Error prints an error message. Errors are shown even in quiet mode.
func (c *Console) Error(format string, a ...interface{}) {
	c.print(c.Red, "✗ ", format, a...)
}

func (c *Console) print(style *color.Color, prefix, format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopSpinnerInternal()
	line := prefix + fmt.Sprintf(format, a...)
	if style != nil {
		_, _ = style.Fprintln(c.out, line)
		return
	}
	_, _ = fmt.Fprintln(c.out, line)
}

// StartProgress starts a dynamic progress line with a spinner.
func (c *Console) StartProgress(message string) {
	if c.isQuiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isSpinning {
		c.stopSpinnerInternal()
	}

	c.spinner = newSpinner()
	c.spinnerMsg = message
	c.isSpinning = true

	go func() {
		for {
			c.mu.Lock()
			if !c.isSpinning {
				c.mu.Unlock()
				return
			}
			frame := c.spinner.next()
			_, _ = fmt.Fprintf(c.out, "\r\033[K%s %s", c.Green.Sprint(frame), c.spinnerMsg)
			c.mu.Unlock()
			time.Sleep(100 * time.Millisecond)
		}
	}()
}

// UpdateProgress updates the message of the current progress line.
func (c *Console) UpdateProgress(message string) {
	if c.isQuiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isSpinning {
		c.spinnerMsg = message
	}
}

// StopProgress stops the progress line.
func (c *Console) StopProgress() {
	if c.isQuiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopSpinnerInternal()
}

// stopSpinnerInternal stops the spinner and clears the current line. c.mu must be held.
func (c *Console) stopSpinnerInternal() {
	if c.isSpinning {
		c.isSpinning = false
		_, _ = fmt.Fprint(c.out, "\r\033[K")
	}
}

// spinner manages the animation frames for a spinner.
type spinner struct {
	frames []string
	index  int
}

func newSpinner() *spinner {
	return &spinner{
		frames: []string{"⣷", "⣯", "⣟", "⡿", "⢿", "⣻", "⣽", "⣾"},
	}
}

func (s *spinner) next() string {
	frame := s.frames[s.index]
	s.index = (s.index + 1) % len(s.frames)
	return frame
}
