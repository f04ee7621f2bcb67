// Package cliio provides I/O plumbing for cmdparse programs: an IOManager
// holding the standard streams and colour policy, and a leveled Logger.
package cliio

import (
	stdio "io"
	"os"

	"github.com/fatih/color"
)

// IOManager holds the streams a program writes to and decides whether output
// is colourized.
type IOManager struct {
	in  stdio.Reader
	out stdio.Writer
	err stdio.Writer

	forceColor bool
	noColor    bool
}

// New creates an IOManager bound to the process's standard streams
func New() *IOManager {
	return &IOManager{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// WithIn overrides the input reader
func (m *IOManager) WithIn(r stdio.Reader) *IOManager { m.in = r; return m }

// WithOut overrides the output writer
func (m *IOManager) WithOut(w stdio.Writer) *IOManager { m.out = w; return m }

// WithErr overrides the error writer
func (m *IOManager) WithErr(w stdio.Writer) *IOManager { m.err = w; return m }

// ForceColor enables colour regardless of terminal detection
func (m *IOManager) ForceColor() *IOManager { m.forceColor = true; m.noColor = false; return m }

// NoColor disables colour
func (m *IOManager) NoColor() *IOManager { m.noColor = true; m.forceColor = false; return m }

// ColorAuto restores terminal detection
func (m *IOManager) ColorAuto() *IOManager { m.noColor = false; m.forceColor = false; return m }

func (m *IOManager) In() stdio.Reader { return m.in }

func (m *IOManager) Out() stdio.Writer { return m.out }

func (m *IOManager) Err() stdio.Writer { return m.err }

// SupportsColor reports whether output should be colourized. An explicit
// override wins; NO_COLOR and FORCE_COLOR come next; otherwise the decision
// follows fatih/color's terminal detection.
func (m *IOManager) SupportsColor() bool {
	if m.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if m.forceColor || os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return !color.NoColor
}

// Paint renders text with the given attributes when colour is supported
func (m *IOManager) Paint(text string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if m.SupportsColor() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}
