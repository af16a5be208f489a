package lock

import (
	"sync"
	"sync/atomic"
)

// MutexBackend creates handles backed by sync.Mutex.
type MutexBackend struct{}

// Create implements Backend.
func (MutexBackend) Create() (Handle, error) {
	return &mutexHandle{}, nil
}

type mutexHandle struct {
	mu        sync.Mutex
	held      atomic.Bool
	destroyed atomic.Bool
}

func (h *mutexHandle) Acquire() bool {
	if h.destroyed.Load() {
		return false
	}
	h.mu.Lock()
	h.held.Store(true)
	return true
}

func (h *mutexHandle) Release() bool {
	// sync.Mutex panics on unlock of an unlocked mutex.
	if !h.held.CompareAndSwap(true, false) {
		return false
	}
	h.mu.Unlock()
	return true
}

func (h *mutexHandle) Destroy() error {
	if h.destroyed.Swap(true) {
		return ErrDestroyed
	}
	return nil
}

// NoopBackend creates handles that never block and never fail.
// Use it only when a database is confined to a single goroutine.
type NoopBackend struct{}

// Create implements Backend.
func (NoopBackend) Create() (Handle, error) {
	return noopHandle{}, nil
}

type noopHandle struct{}

func (noopHandle) Acquire() bool  { return true }
func (noopHandle) Release() bool  { return true }
func (noopHandle) Destroy() error { return nil }
