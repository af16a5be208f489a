// Package recordstore performs fixed-size record I/O against the data file
// and maintains the header and ID table of the index file.
//
// A Store is not safe for concurrent use; callers serialize access.
package recordstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/lighdb/fs"
	"github.com/hupe1980/lighdb/internal/format"
)

var (
	// ErrIndexOutOfRange is returned when a record index is not below the
	// record count.
	ErrIndexOutOfRange = errors.New("recordstore: index out of range")
	// ErrShortBuffer is returned when a record buffer is shorter than the
	// item size.
	ErrShortBuffer = errors.New("recordstore: buffer shorter than item size")
	// ErrFull is returned when the record count would overflow.
	ErrFull = errors.New("recordstore: record count exhausted")
)

// Store addresses records in the data file and IDs in the index file.
type Store struct {
	index fs.File
	data  fs.File
	h     format.Header
	sync  bool
}

// Create initializes an empty database in index and data: it writes a fresh
// header followed by userHeader to index and the version stamp to data.
func Create(index, data fs.File, itemSize uint32, userHeader []byte, sync bool) (*Store, error) {
	if uint64(len(userHeader)) > math.MaxUint32 {
		return nil, fmt.Errorf("recordstore: user header of %d bytes too large", len(userHeader))
	}

	s := &Store{
		index: index,
		data:  data,
		h:     format.NewHeader(itemSize, uint32(len(userHeader))),
		sync:  sync,
	}

	b, _ := s.h.AppendBinary(make([]byte, 0, format.HeaderSize+len(userHeader)))
	b = append(b, userHeader...)
	if err := writeAt(index, 0, b); err != nil {
		return nil, err
	}
	if err := writeAt(data, 0, format.Version[:]); err != nil {
		return nil, err
	}
	if err := s.flush(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads and validates the header of index and the stamp of data.
// Both are checked independently.
func Load(index, data fs.File, sync bool) (*Store, error) {
	var raw [format.HeaderSize]byte
	if err := readAt(index, 0, raw[:]); err != nil {
		return nil, err
	}

	s := &Store{index: index, data: data, sync: sync}
	if err := s.h.UnmarshalBinary(raw[:]); err != nil {
		return nil, err
	}

	var stamp [format.VersionSize]byte
	if err := readAt(data, 0, stamp[:]); err != nil {
		return nil, err
	}
	if err := format.CheckStamp(stamp[:]); err != nil {
		return nil, fmt.Errorf("data file: %w", err)
	}
	return s, nil
}

// Header returns a copy of the in-memory header.
func (s *Store) Header() format.Header { return s.h }

// Count returns the number of records.
func (s *Store) Count() uint32 { return s.h.Count }

// ItemSize returns the size of one record.
func (s *Store) ItemSize() uint32 { return s.h.ItemSize }

// CheckIndex reports whether index addresses an existing record.
func (s *Store) CheckIndex(index uint32) error {
	if index >= s.h.Count {
		return fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, index, s.h.Count)
	}
	return nil
}

// CheckBuffer reports whether buf can hold one record.
func (s *Store) CheckBuffer(buf []byte) error {
	if uint64(len(buf)) < uint64(s.h.ItemSize) {
		return fmt.Errorf("%w: %d < %d", ErrShortBuffer, len(buf), s.h.ItemSize)
	}
	return nil
}

// Read reads record index into buf[:ItemSize].
func (s *Store) Read(index uint32, buf []byte) error {
	if err := s.CheckIndex(index); err != nil {
		return err
	}
	if err := s.CheckBuffer(buf); err != nil {
		return err
	}
	return readAt(s.data, s.h.RecordOffset(index), buf[:s.h.ItemSize])
}

// Write overwrites record index with data[:ItemSize].
func (s *Store) Write(index uint32, data []byte) error {
	if err := s.CheckIndex(index); err != nil {
		return err
	}
	if err := s.CheckBuffer(data); err != nil {
		return err
	}
	if err := writeAt(s.data, s.h.RecordOffset(index), data[:s.h.ItemSize]); err != nil {
		return err
	}
	return s.flushData()
}

// Append stores data[:ItemSize] as a new record tagged with id and returns
// its index.
//
// The record, the ID table entry and the header are written in that order.
// The in-memory count only advances once the header write succeeded. A
// failure part way leaves an unindexed tail that the next Append overwrites.
func (s *Store) Append(data []byte, id uint32) (uint32, error) {
	if err := s.CheckBuffer(data); err != nil {
		return 0, err
	}
	index := s.h.Count
	if index == math.MaxUint32 {
		return 0, ErrFull
	}

	if err := writeAt(s.data, s.h.RecordOffset(index), data[:s.h.ItemSize]); err != nil {
		return 0, err
	}

	var entry [format.IDSize]byte
	binary.LittleEndian.PutUint32(entry[:], id)
	if err := writeAt(s.index, s.h.IDOffset(index), entry[:]); err != nil {
		return 0, err
	}

	next := s.h
	next.Count++
	if err := s.writeHeader(next); err != nil {
		return 0, err
	}
	s.h = next

	if err := s.flush(); err != nil {
		return index, err
	}
	return index, nil
}

// ReadIDs fills dst with the ID table entries starting at start.
func (s *Store) ReadIDs(start uint32, dst []uint32) error {
	if uint64(start)+uint64(len(dst)) > uint64(s.h.Count) {
		return fmt.Errorf("%w: ids [%d, %d) beyond count %d", ErrIndexOutOfRange, start, uint64(start)+uint64(len(dst)), s.h.Count)
	}
	if len(dst) == 0 {
		return nil
	}
	if err := fs.SeekTo(s.index, s.h.IDOffset(start)); err != nil {
		return err
	}
	if err := binary.Read(s.index, binary.LittleEndian, dst); err != nil {
		return &fs.OpError{Op: "read", Err: err}
	}
	return nil
}

// ReadUserHeader copies the user header into buf, clipped to the declared
// size, and returns the number of bytes read.
func (s *Store) ReadUserHeader(buf []byte) (int, error) {
	n := s.clipUserHeader(len(buf))
	if n == 0 {
		return 0, nil
	}
	if err := readAt(s.index, format.HeaderSize, buf[:n]); err != nil {
		return 0, err
	}
	return n, nil
}

// WriteUserHeader overwrites the user header with data, clipped to the
// declared size, and returns the number of bytes written.
func (s *Store) WriteUserHeader(data []byte) (int, error) {
	n := s.clipUserHeader(len(data))
	if n == 0 {
		return 0, nil
	}
	if err := writeAt(s.index, format.HeaderSize, data[:n]); err != nil {
		return 0, err
	}
	if err := s.flushIndex(); err != nil {
		return n, err
	}
	return n, nil
}

// Files returns the underlying index and data files.
func (s *Store) Files() (index, data fs.File) { return s.index, s.data }

func (s *Store) clipUserHeader(n int) int {
	if uint64(n) > uint64(s.h.UserHeaderSize) {
		return int(s.h.UserHeaderSize)
	}
	return n
}

func (s *Store) writeHeader(h format.Header) error {
	b, _ := h.MarshalBinary()
	return writeAt(s.index, 0, b)
}

func (s *Store) flush() error {
	if err := s.flushData(); err != nil {
		return err
	}
	return s.flushIndex()
}

func (s *Store) flushData() error {
	if !s.sync {
		return nil
	}
	return fs.Sync(s.data)
}

func (s *Store) flushIndex() error {
	if !s.sync {
		return nil
	}
	return fs.Sync(s.index)
}

func readAt(f fs.File, off int64, buf []byte) error {
	if err := fs.SeekTo(f, off); err != nil {
		return err
	}
	return fs.ReadFull(f, buf)
}

func writeAt(f fs.File, off int64, b []byte) error {
	if err := fs.SeekTo(f, off); err != nil {
		return err
	}
	return fs.WriteFull(f, b)
}
