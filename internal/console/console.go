// Package console prints short status lines for the CLI.
package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	Brand  = color.New(color.FgHiMagenta, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Banner prints the program name and a subtitle.
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s\n\n", Brand.Sprint("polynet"), Subtle.Sprint(subtitle))
}

// Success prints a check mark line
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", Good.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Failure prints a cross line
func Failure(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", Bad.Sprint("✗"), fmt.Sprintf(format, args...))
}

// Warning prints an exclamation line for recoverable problems.
func Warning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", Warn.Sprint("!"), fmt.Sprintf(format, args...))
}

// Field prints an aligned key/value pair.
func Field(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %s %s\n", Subtle.Sprintf("%-10s", key), Info.Sprint(value))
}
