// Package export serializes rendered frames for download or to disk. The
// serialized bytes live in a Handle that must be released after use; every
// helper here releases on all paths.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
)

const (
	// DefaultFilename is the name exports are saved under
	DefaultFilename = "network.svg"
	// ContentType of the exported document
	ContentType = "image/svg+xml;charset=utf-8"
)

// ErrReleased is returned when a released handle is read.
var ErrReleased = errors.New("export: handle already released")

// Renderer writes a serialized frame
type Renderer interface {
	WriteSVG(w io.Writer) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(w io.Writer) error

// WriteSVG calls f(w)
func (f RendererFunc) WriteSVG(w io.Writer) error { return f(w) }

// Bytes is a Renderer over an already serialized frame.
type Bytes []byte

// WriteSVG writes b to w
func (b Bytes) WriteSVG(w io.Writer) error {
	_, err := w.Write(b)
	return err
}

// Pool hands out buffers for serialized frames and counts the ones not yet
// released.
type Pool struct {
	buffers     sync.Pool
	outstanding atomic.Int64
}

// NewPool creates an empty pool
func NewPool() *Pool {
	p := &Pool{}
	p.buffers.New = func() any { return new(bytes.Buffer) }
	return p
}

// Outstanding is the number of acquired handles not yet released.
func (p *Pool) Outstanding() int64 {
	return p.outstanding.Load()
}

// Handle is a transient reference to one serialized frame.
type Handle struct {
	pool     *Pool
	buf      *bytes.Buffer
	released atomic.Bool
}

// Acquire renders r into a pooled buffer. On error nothing is left acquired.
func (p *Pool) Acquire(r Renderer) (*Handle, error) {
	buf := p.buffers.Get().(*bytes.Buffer)
	buf.Reset()
	h := &Handle{pool: p, buf: buf}
	p.outstanding.Add(1)

	if err := r.WriteSVG(buf); err != nil {
		h.Release()
		return nil, fmt.Errorf("render export: %w", err)
	}
	return h, nil
}

// Bytes returns the serialized frame. The slice is only valid until Release.
func (h *Handle) Bytes() ([]byte, error) {
	if h.released.Load() {
		return nil, ErrReleased
	}
	return h.buf.Bytes(), nil
}

// Len is the size of the serialized frame
func (h *Handle) Len() int {
	if h.released.Load() {
		return 0
	}
	return h.buf.Len()
}

// Release returns the buffer to the pool. It is safe to call more than once.
func (h *Handle) Release() {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	h.buf.Reset()
	h.pool.buffers.Put(h.buf)
	h.buf = nil
	h.pool.outstanding.Add(-1)
}

// WriteFile renders r and writes it to path. The bytes go to a temporary
// file in the same directory first, which is renamed into place on success
// and removed on failure.
func (p *Pool) WriteFile(path string, r Renderer) (err error) {
	h, err := p.Acquire(r)
	if err != nil {
		return err
	}
	defer h.Release()

	data, err := h.Bytes()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp export: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod export: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save export: %w", err)
	}
	return nil
}

// Download renders r and sends it as an attachment named filename.
func (p *Pool) Download(w http.ResponseWriter, filename string, r Renderer) error {
	h, err := p.Acquire(r)
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return err
	}
	defer h.Release()

	data, err := h.Bytes()
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return err
	}

	if filename == "" {
		filename = DefaultFilename
	}
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("send export: %w", err)
	}
	return nil
}
