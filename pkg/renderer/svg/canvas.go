// Package svg wraps an svgo float canvas for frame output.
package svg

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo/float"
)

// Decimals is the coordinate precision written by NewCanvas.
const Decimals = 2

// Canvas is an svgo canvas that remembers the first write error. svgo
// itself discards errors, so writes after a failure are dropped here.
type Canvas struct {
	*svgo.SVG
	w *stickyWriter
}

// NewCanvas creates a canvas writing to w
func NewCanvas(w io.Writer) *Canvas {
	sw := &stickyWriter{w: w}
	c := &Canvas{SVG: svgo.New(sw), w: sw}
	c.Decimals = Decimals
	return c
}

// Err returns the first error the underlying writer reported.
func (c *Canvas) Err() error { return c.w.err }

type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	s.err = err
	return n, err
}

// Attr formats one escaped name="value" pair. svgo passes strings that
// contain '=' through as raw attributes.
func Attr(name string, v any) string {
	return name + `="` + html.EscapeString(FormatValue(v)) + `"`
}

// FormatValue renders an attribute value. Floats use the shortest exact
// representation so 4/3.5 and 800.0 come out as 1.1428571428571428 and 800.
func FormatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", v)
}

// Dash formats a stroke-dasharray from dash and gap lengths.
func Dash(lengths ...float64) string {
	parts := make([]string, len(lengths))
	for i, l := range lengths {
		parts[i] = FormatValue(l)
	}
	return strings.Join(parts, ", ")
}
