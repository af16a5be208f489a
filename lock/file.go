package lock

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// FileBackend creates handles that hold an exclusive advisory lock on the
// file at Path while acquired. Other processes using a FileBackend on the
// same path are excluded as well as other goroutines.
//
// On Unix systems, this uses flock(2); on Windows, LockFileEx. Other
// targets return errors.ErrUnsupported from Create.
type FileBackend struct {
	Path string
}

// Create implements Backend.
func (b FileBackend) Create() (Handle, error) {
	if !fileLockSupported {
		return nil, errors.ErrUnsupported
	}
	if b.Path == "" {
		return nil, errors.New("lock: empty lock file path")
	}
	f, err := os.OpenFile(b.Path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open lock file: %w", err)
	}
	return &fileHandle{f: f}, nil
}

type fileHandle struct {
	// mu serializes goroutines; OS file locks are per open file description.
	mu        sync.Mutex
	f         *os.File
	held      atomic.Bool
	destroyed atomic.Bool
}

func (h *fileHandle) Acquire() bool {
	if h.destroyed.Load() {
		return false
	}
	h.mu.Lock()
	if err := lockFile(h.f); err != nil {
		h.mu.Unlock()
		return false
	}
	h.held.Store(true)
	return true
}

func (h *fileHandle) Release() bool {
	if !h.held.CompareAndSwap(true, false) {
		return false
	}
	err := unlockFile(h.f)
	h.mu.Unlock()
	return err == nil
}

func (h *fileHandle) Destroy() error {
	if h.destroyed.Swap(true) {
		return ErrDestroyed
	}
	return h.f.Close()
}
