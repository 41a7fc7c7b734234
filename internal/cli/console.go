package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/stackpng/stackpng/internal/config"
)

// isTerminalReader reports whether r is an interactive terminal.
// Tests replace it to exercise the overwrite prompt.
var isTerminalReader = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorEnabled resolves a color mode for w. "auto" colors terminals
// unless NO_COLOR is set.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		return isTerminalWriter(w)
	}
}

// console prints human-facing status lines.
type console struct {
	w       io.Writer
	success *color.Color
	failure *color.Color
	notice  *color.Color
}

func newConsole(w io.Writer, mode string) *console {
	enabled := colorEnabled(mode, w)
	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &console{
		w:       w,
		success: paint(color.FgGreen),
		failure: paint(color.FgRed, color.Bold),
		notice:  paint(color.FgYellow),
	}
}

// The newline is written outside the color sequence.
func (c *console) Successf(format string, args ...any) {
	fmt.Fprintln(c.w, c.success.Sprintf(format, args...))
}

func (c *console) Failuref(format string, args ...any) {
	fmt.Fprintln(c.w, c.failure.Sprintf(format, args...))
}

func (c *console) Noticef(format string, args ...any) {
	fmt.Fprintln(c.w, c.notice.Sprintf(format, args...))
}
