// Package lock provides the mutual-exclusion backends a database instance
// uses to serialize its public operations.
//
// A [Backend] creates one [Handle] per database instance. Acquire blocks
// until the handle is held and reports failure as false; there is no
// timeout. Release reports false when the handle was not held.
//
// # Backends
//
//   - [MutexBackend]: sync.Mutex, the default
//   - [SemaphoreBackend]: a binary semaphore (golang.org/x/sync/semaphore),
//     mirroring RTOS semaphore-based ports
//   - [NoopBackend]: no exclusion, for single-goroutine programs
//   - [FileBackend]: an advisory OS file lock that also excludes other
//     processes opening the same database
package lock

import "errors"

// ErrDestroyed is returned when a destroyed handle is destroyed again.
var ErrDestroyed = errors.New("lock: handle destroyed")

// Handle is a mutual-exclusion handle.
type Handle interface {
	// Acquire blocks until the handle is held. It returns false on failure.
	Acquire() bool
	// Release releases a held handle. It returns false if it was not held.
	Release() bool
	// Destroy frees the handle. Acquire fails afterwards.
	Destroy() error
}

// Backend creates lock handles.
type Backend interface {
	Create() (Handle, error)
}

// BackendFunc adapts a function to a Backend.
type BackendFunc func() (Handle, error)

// Create implements Backend.
func (f BackendFunc) Create() (Handle, error) { return f() }
