package svg

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanvas_WritesDocument(t *testing.T) {
	var buf strings.Builder
	c := NewCanvas(&buf)
	c.Start(800, 800)
	c.Circle(1.5, -2.25, 20, Attr("fill", "#111111"))
	c.End()

	assert.NoError(t, c.Err())
	out := buf.String()
	assert.Contains(t, out, `<svg width="800.00" height="800.00"`)
	assert.Contains(t, out, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, out, `<circle cx="1.50" cy="-2.25" r="20.00" fill="#111111" />`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestAttr_Escapes(t *testing.T) {
	assert.Equal(t, `fill="&#34;&gt;&lt;script&gt;"`, Attr("fill", `"><script>`))
	assert.Equal(t, `stroke-width="2"`, Attr("stroke-width", 2.0))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1.1428571428571428", FormatValue(4/3.5))
	assert.Equal(t, "800", FormatValue(800.0))
	assert.Equal(t, "7", FormatValue(7))
	assert.Equal(t, "30s", FormatValue("30s"))
	assert.Equal(t, "[1 2]", FormatValue([]int{1, 2}))
}

func TestDash(t *testing.T) {
	assert.Equal(t, "20, 10", Dash(20, 10))
	assert.Equal(t, "8", Dash(8))
}

type failingWriter struct{ n int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.n++
	if f.n > 2 {
		return 0, errors.New("disk full")
	}
	return len(p), nil
}

func TestCanvas_StopsOnWriteError(t *testing.T) {
	w := &failingWriter{}
	c := NewCanvas(w)
	c.Start(10, 10)
	for i := 0; i < 5; i++ {
		c.Line(0, 0, 1, 1)
	}
	c.End()

	assert.EqualError(t, c.Err(), "disk full")
	assert.Equal(t, 3, w.n)
}
