package fs

import (
	"context"
	"os"

	"golang.org/x/time/rate"
)

// ThrottledFS limits the write throughput of the wrapped FileSystem.
//
// Flash media (SD cards, SPI NOR) often share a bus with latency sensitive
// peripherals; throttling keeps bulk appends from starving them. Reads are
// not limited.
type ThrottledFS struct {
	FS      FileSystem
	limiter *rate.Limiter
}

// NewThrottledFS wraps fs (or Default if nil) so that at most bytesPerSec
// bytes per second are written across all its files.
// If bytesPerSec <= 0, writes are unlimited.
func NewThrottledFS(fs FileSystem, bytesPerSec int) *ThrottledFS {
	if fs == nil {
		fs = Default
	}
	t := &ThrottledFS{FS: fs}
	if bytesPerSec > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
	}
	return t
}

func (t *ThrottledFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := t.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	if t.limiter == nil {
		return f, nil
	}
	return &throttledFile{File: f, limiter: t.limiter}, nil
}

type throttledFile struct {
	File
	limiter *rate.Limiter
}

func (tf *throttledFile) Write(p []byte) (int, error) {
	written := 0
	burst := tf.limiter.Burst()
	for written < len(p) {
		chunk := min(len(p)-written, burst)
		// WaitN fails for n > burst, so large writes are split.
		if err := tf.limiter.WaitN(context.Background(), chunk); err != nil {
			return written, err
		}
		n, err := tf.File.Write(p[written : written+chunk])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
