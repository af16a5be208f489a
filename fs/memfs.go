package fs

import (
	"errors"
	"io"
	"os"
	"sync"
)

var errClosed = errors.New("fs: file already closed")

// MemFS is an in-memory FileSystem.
// It is useful as a RAM disk on targets without persistent storage and in
// tests. Thread-safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]*memNode
	open  int
}

type memNode struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemFS creates a new empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]*memNode),
	}
}

// OpenFile opens or creates a named in-memory file.
func (m *MemFS) OpenFile(name string, flag int, _ os.FileMode) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.files[name]
	switch {
	case !ok && flag&os.O_CREATE == 0:
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	case !ok:
		node = &memNode{}
		m.files[name] = node
	case flag&os.O_TRUNC != 0:
		node.mu.Lock()
		node.data = nil
		node.mu.Unlock()
	}

	m.open++
	return &memFile{
		fs:       m,
		node:     node,
		readOnly: flag&(os.O_WRONLY|os.O_RDWR) == 0,
	}, nil
}

// Bytes returns a copy of the named file's contents.
func (m *MemFS) Bytes(name string) ([]byte, bool) {
	m.mu.RLock()
	node, ok := m.files[name]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	node.mu.RLock()
	defer node.mu.RUnlock()
	// Return a copy to prevent external mutation
	copied := make([]byte, len(node.data))
	copy(copied, node.data)
	return copied, true
}

// WriteBytes replaces the named file's contents, creating it if needed.
func (m *MemFS) WriteBytes(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	node, ok := m.files[name]
	if !ok {
		m.files[name] = &memNode{data: copied}
		return
	}
	node.mu.Lock()
	node.data = copied
	node.mu.Unlock()
}

// OpenHandles returns the number of files opened and not yet closed.
func (m *MemFS) OpenHandles() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.open
}

type memFile struct {
	fs       *MemFS
	node     *memNode
	pos      int64
	readOnly bool
	closed   bool
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, errClosed
	}
	f.node.mu.RLock()
	defer f.node.mu.RUnlock()

	if f.pos >= int64(len(f.node.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.node.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, errClosed
	}
	if f.readOnly {
		return 0, ErrReadOnly
	}
	f.node.mu.Lock()
	defer f.node.mu.Unlock()

	end := f.pos + int64(len(p))
	oldLen := int64(len(f.node.data))
	if end > oldLen {
		if end > int64(cap(f.node.data)) {
			grown := make([]byte, end, 2*end)
			copy(grown, f.node.data)
			f.node.data = grown
		} else {
			f.node.data = f.node.data[:end]
			if f.pos > oldLen {
				clear(f.node.data[oldLen:f.pos])
			}
		}
	}
	copy(f.node.data[f.pos:], p)
	f.pos = end
	return len(p), nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, errClosed
	}
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		f.node.mu.RLock()
		base = int64(len(f.node.data))
		f.node.mu.RUnlock()
	default:
		return 0, errors.New("fs: invalid whence")
	}
	if base+offset < 0 {
		return 0, errors.New("fs: negative position")
	}
	f.pos = base + offset
	return f.pos, nil
}

func (f *memFile) Sync() error {
	if f.closed {
		return errClosed
	}
	return nil
}

func (f *memFile) Close() error {
	if f.closed {
		return errClosed
	}
	f.closed = true
	f.fs.mu.Lock()
	f.fs.open--
	f.fs.mu.Unlock()
	return nil
}
