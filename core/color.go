package core

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

var (
	ColorBoldRed    = color.New(color.FgRed, color.Bold)
	ColorBoldYellow = color.New(color.FgYellow, color.Bold)
	ColorBoldCyan   = color.New(color.FgCyan, color.Bold)
)

// ColorPrinter decorates shell diagnostics when the output supports it.
type ColorPrinter struct {
	mode string
}

// NewColorPrinter creates a printer for the given mode (always|auto|never).
// In auto mode output is colored only for writers that are terminals.
func NewColorPrinter(mode string) *ColorPrinter {
	return &ColorPrinter{mode: mode}
}

// ShouldColor reports whether text written to w gets colored.
func (c *ColorPrinter) ShouldColor(w io.Writer) bool {
	if c == nil {
		return false
	}

	switch c.mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		f, ok := w.(*os.File)
		return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
}

// Fprintf writes the formatted text to w, colored if w allows it.
func (c *ColorPrinter) Fprintf(w io.Writer, clr *color.Color, format string, a ...interface{}) {
	// Keep the reset sequence on the same line as the text.
	trimmed := strings.TrimSuffix(format, "\n")
	fmt.Fprint(w, c.sprintf(w, clr, trimmed, a...))
	if trimmed != format {
		fmt.Fprintln(w)
	}
}

func (c *ColorPrinter) sprintf(w io.Writer, clr *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor(w) {
		// color.NoColor is decided globally from os.Stdout, the printer's own
		// decision takes precedence.
		clr.EnableColor()
		defer clr.DisableColor()
		return clr.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
