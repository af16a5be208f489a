package lighdb

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lighdb/fs"
	"github.com/hupe1980/lighdb/internal/format"
	"github.com/hupe1980/lighdb/internal/recordstore"
)

var (
	// ErrGeneric is returned for failures that fit no other kind.
	ErrGeneric = errors.New("lighdb: generic error")
	// ErrIO is returned when the file system reported a failure or a short
	// transfer.
	ErrIO = errors.New("lighdb: i/o error")
	// ErrIndexOutOfRange is returned when a record index is not below the
	// record count.
	ErrIndexOutOfRange = errors.New("lighdb: index out of range")
	// ErrNoSuchID is returned when no record carries the requested ID.
	ErrNoSuchID = errors.New("lighdb: no such id")
	// ErrHeaderMismatch is returned by Open when the index file header or the
	// data file stamp is not a valid database version tag.
	ErrHeaderMismatch = errors.New("lighdb: header mismatch")
	// ErrNoBuffer is returned when an operation needs the ID window but
	// SetBuffer was not called.
	ErrNoBuffer = errors.New("lighdb: no id window buffer")
	// ErrNotOpened is returned when an operation needs an open database.
	ErrNotOpened = errors.New("lighdb: database not opened")
	// ErrSmallBuffer is returned when a caller buffer is smaller than
	// required. See BufferSizeError.
	ErrSmallBuffer = errors.New("lighdb: buffer too small")
	// ErrInvalidArgument is returned for empty paths, a zero item size and
	// invalid options.
	ErrInvalidArgument = errors.New("lighdb: invalid argument")
	// ErrLock is returned when the lock backend fails, including every call
	// made after Destroy.
	ErrLock = errors.New("lighdb: lock error")
	// ErrAlreadyOpen is returned by Create, Open and Destroy on an open
	// database.
	ErrAlreadyOpen = errors.New("lighdb: database already open")
	// ErrReadOnly is returned by mutating operations on a database opened
	// with WithReadOnly.
	ErrReadOnly = errors.New("lighdb: read-only database")
)

// BufferSizeError reports a caller buffer smaller than required.
//
// Required and Actual are in bytes for record buffers and in entries for the
// ID window. It matches ErrSmallBuffer with errors.Is.
type BufferSizeError struct {
	Required int
	Actual   int
}

func (e *BufferSizeError) Error() string {
	return fmt.Sprintf("lighdb: buffer too small: required %d, got %d", e.Required, e.Actual)
}

func (e *BufferSizeError) Unwrap() error { return ErrSmallBuffer }

// ErrorKind classifies the outcome of an operation.
type ErrorKind int

const (
	KindOK ErrorKind = iota
	// KindTruncated is the successful outcome of a FindByID whose output
	// could not hold every match. It is never carried by an error.
	KindTruncated
	KindGeneric
	KindIO
	KindIndexOutOfRange
	KindNoSuchID
	KindHeaderMismatch
	KindNoBuffer
	KindNotOpened
	KindSmallBuffer
	KindInvalidArgument
	KindLock
)

var kindNames = [...]string{
	KindOK:              "ok",
	KindTruncated:       "ok (truncated)",
	KindGeneric:         "generic error",
	KindIO:              "i/o error",
	KindIndexOutOfRange: "index out of range",
	KindNoSuchID:        "no such id",
	KindHeaderMismatch:  "header mismatch",
	KindNoBuffer:        "no buffer",
	KindNotOpened:       "not opened",
	KindSmallBuffer:     "small buffer",
	KindInvalidArgument: "invalid argument",
	KindLock:            "lock error",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return kindNames[k]
}

// KindOf returns the kind of an error returned by this package.
// A nil error is KindOK; unknown errors are KindGeneric.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrLock):
		return KindLock
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrIndexOutOfRange):
		return KindIndexOutOfRange
	case errors.Is(err, ErrNoSuchID):
		return KindNoSuchID
	case errors.Is(err, ErrHeaderMismatch):
		return KindHeaderMismatch
	case errors.Is(err, ErrNoBuffer):
		return KindNoBuffer
	case errors.Is(err, ErrNotOpened):
		return KindNotOpened
	case errors.Is(err, ErrSmallBuffer):
		return KindSmallBuffer
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrReadOnly):
		return KindInvalidArgument
	default:
		return KindGeneric
	}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Validation failures of the lower layers.
	if errors.Is(err, format.ErrHeaderMismatch) || errors.Is(err, format.ErrShortHeader) {
		return fmt.Errorf("%w: %w", ErrHeaderMismatch, err)
	}
	if errors.Is(err, recordstore.ErrIndexOutOfRange) {
		return fmt.Errorf("%w: %w", ErrIndexOutOfRange, err)
	}
	if errors.Is(err, recordstore.ErrShortBuffer) {
		return fmt.Errorf("%w: %w", ErrSmallBuffer, err)
	}

	// Storage failures.
	var opErr *fs.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return fmt.Errorf("%w: %w", ErrGeneric, err)
}
