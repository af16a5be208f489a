package lock

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// SemaphoreBackend creates handles backed by a binary weighted semaphore.
type SemaphoreBackend struct{}

// Create implements Backend.
func (SemaphoreBackend) Create() (Handle, error) {
	return &semaphoreHandle{sem: semaphore.NewWeighted(1)}, nil
}

type semaphoreHandle struct {
	sem       *semaphore.Weighted
	held      atomic.Bool
	destroyed atomic.Bool
}

func (h *semaphoreHandle) Acquire() bool {
	if h.destroyed.Load() {
		return false
	}
	if err := h.sem.Acquire(context.Background(), 1); err != nil {
		return false
	}
	h.held.Store(true)
	return true
}

func (h *semaphoreHandle) Release() bool {
	// Weighted.Release panics when releasing more than held.
	if !h.held.CompareAndSwap(true, false) {
		return false
	}
	h.sem.Release(1)
	return true
}

func (h *semaphoreHandle) Destroy() error {
	if h.destroyed.Swap(true) {
		return ErrDestroyed
	}
	return nil
}
