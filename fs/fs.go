package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrReadOnly is returned when a write is attempted on a read-only file or
// file system.
var ErrReadOnly = errors.New("fs: read-only")

// File represents an open file.
type File interface {
	io.ReadWriteCloser
	io.Seeker
	Sync() error
}

// FileSystem abstracts file system operations for pluggable storage.
//
// Flags follow the os package: os.O_RDWR opens an existing file,
// os.O_RDWR|os.O_CREATE|os.O_TRUNC creates (or truncates) one and
// os.O_RDONLY opens one for reading only.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
}

// Open flags used by the database.
const (
	FlagOpen     = os.O_RDWR
	FlagCreate   = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	FlagReadOnly = os.O_RDONLY
)

// LocalFS implements FileSystem using the local os package.
type LocalFS struct{}

func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(name, flag, perm)
}

// Default is the default local file system.
var Default FileSystem = LocalFS{}

// OpError records a failed storage operation.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("fs: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// ReadFull reads exactly len(buf) bytes from f.
// A short read is reported as io.ErrUnexpectedEOF.
func ReadFull(f File, buf []byte) error {
	if _, err := io.ReadFull(f, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return &OpError{Op: "read", Err: err}
	}
	return nil
}

// WriteFull writes all of b to f.
func WriteFull(f File, b []byte) error {
	n, err := f.Write(b)
	if err == nil && n != len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &OpError{Op: "write", Err: err}
	}
	return nil
}

// SeekTo positions f at the absolute offset off.
func SeekTo(f File, off int64) error {
	pos, err := f.Seek(off, io.SeekStart)
	if err == nil && pos != off {
		err = fmt.Errorf("seek landed at %d, want %d", pos, off)
	}
	if err != nil {
		return &OpError{Op: "seek", Err: err}
	}
	return nil
}

// Size returns the size of f by seeking to its end.
// The file position is left at the end.
func Size(f File) (int64, error) {
	n, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, &OpError{Op: "seek", Err: err}
	}
	return n, nil
}

// Close closes f, wrapping a failure in an *OpError.
func Close(f File) error {
	if err := f.Close(); err != nil {
		return &OpError{Op: "close", Err: err}
	}
	return nil
}

// Sync flushes f, wrapping a failure in an *OpError.
func Sync(f File) error {
	if err := f.Sync(); err != nil {
		return &OpError{Op: "sync", Err: err}
	}
	return nil
}
