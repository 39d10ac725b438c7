package console

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestOutput(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	Banner(&buf, "serve")
	Success(&buf, "wrote %s", "network.svg")
	Failure(&buf, "boom")
	Warning(&buf, "reload failed: %d keys", 2)
	Field(&buf, "url", "http://localhost:7070")

	assert.Equal(t, "polynet serve\n\n"+
		"✓ wrote network.svg\n"+
		"✗ boom\n"+
		"! reload failed: 2 keys\n"+
		"  url        http://localhost:7070\n", buf.String())
}
