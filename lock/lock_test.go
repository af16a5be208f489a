package lock

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	return map[string]Backend{
		"mutex":     MutexBackend{},
		"semaphore": SemaphoreBackend{},
		"file":      FileBackend{Path: filepath.Join(t.TempDir(), "LOCK")},
	}
}

func TestHandleLifecycle(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			h, err := b.Create()
			require.NoError(t, err)

			assert.False(t, h.Release(), "release of an unheld handle")
			assert.True(t, h.Acquire())
			assert.True(t, h.Release())
			assert.False(t, h.Release(), "double release")

			require.NoError(t, h.Destroy())
			assert.False(t, h.Acquire(), "acquire after destroy")
			assert.ErrorIs(t, h.Destroy(), ErrDestroyed)
		})
	}
}

func TestHandleExclusion(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			h, err := b.Create()
			require.NoError(t, err)
			defer h.Destroy()

			const workers, rounds = 8, 200
			counter := 0
			var wg sync.WaitGroup
			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range rounds {
						if !h.Acquire() {
							t.Error("acquire failed")
							return
						}
						counter++
						h.Release()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, workers*rounds, counter)
		})
	}
}

func TestNoopBackend(t *testing.T) {
	h, err := NoopBackend{}.Create()
	require.NoError(t, err)

	assert.True(t, h.Acquire())
	assert.True(t, h.Acquire())
	assert.True(t, h.Release())
	assert.NoError(t, h.Destroy())
}

func TestBackendFunc(t *testing.T) {
	calls := 0
	b := BackendFunc(func() (Handle, error) {
		calls++
		return MutexBackend{}.Create()
	})

	h, err := b.Create()
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Equal(t, 1, calls)
}

func TestFileBackend_EmptyPath(t *testing.T) {
	_, err := FileBackend{}.Create()
	assert.Error(t, err)
}
