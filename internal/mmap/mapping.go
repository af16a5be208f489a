package mmap

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync/atomic"
)

// ErrClosed is returned by reads on a closed Mapping.
var ErrClosed = errors.New("mmap: mapping closed")

// Hint describes how a mapped database file is going to be read.
type Hint int

const (
	// HintNone leaves the kernel defaults in place.
	HintNone Hint = iota
	// HintSequential suits backups and full ID table scans.
	HintSequential
	// HintRandom suits record lookups by index.
	HintRandom
)

// Mapping is a read-only view of a whole file.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Open maps the file at path and applies hint to the mapping.
// An empty file yields an empty Mapping.
func Open(path string, hint Hint) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	switch {
	case size == 0:
		return &Mapping{}, nil
	case size > math.MaxInt:
		return nil, fmt.Errorf("mmap: %s: size %d not addressable", path, size)
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}
	m := &Mapping{data: data, unmap: unmap}
	if err := osAdvise(data, hint); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

// Len returns the mapped length in bytes.
func (m *Mapping) Len() int { return len(m.data) }

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the file. Calling Close again is a no-op.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.unmap == nil {
		return nil
	}
	return m.unmap(m.data)
}
