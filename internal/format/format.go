// Package format defines the on-disk layout of the index and data files.
//
// Index file:
//
//	[0]   version tag, 10 bytes, "LighDB001\x00"
//	[10]  user header size, u32
//	[14]  item size, u32
//	[18]  count, u32
//	[22]  user header, user header size bytes
//	[22+user header size] ID table, count * 4 bytes (u32 per record, append order)
//
// Data file:
//
//	[0]  version stamp, 10 bytes (equal to the index file's version tag)
//	[10] records, count * item size bytes, back-to-back
//
// All integers are little-endian.
package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// VersionSize is the size of the version tag and of the data file stamp.
	VersionSize = 10
	// HeaderSize is the encoded size of Header.
	HeaderSize = VersionSize + 3*4
	// DataOffset is the offset of record 0 in the data file.
	DataOffset = VersionSize
	// IDSize is the size of one ID table entry.
	IDSize = 4
)

// Version is the version tag written at the start of both files.
var Version = [VersionSize]byte{'L', 'i', 'g', 'h', 'D', 'B', '0', '0', '1', 0}

var (
	// ErrHeaderMismatch is returned when a version tag or stamp does not
	// match Version, or a header is otherwise not a valid database header.
	ErrHeaderMismatch = errors.New("format: header mismatch")
	// ErrShortHeader is returned when fewer bytes than HeaderSize are decoded.
	ErrShortHeader = errors.New("format: short header")
)

// Header is the database header stored at offset 0 of the index file.
type Header struct {
	Version        [VersionSize]byte
	UserHeaderSize uint32
	ItemSize       uint32
	Count          uint32
}

// NewHeader returns the header of a freshly created, empty database.
func NewHeader(itemSize, userHeaderSize uint32) Header {
	return Header{
		Version:        Version,
		UserHeaderSize: userHeaderSize,
		ItemSize:       itemSize,
	}
}

// MarshalBinary encodes h into HeaderSize bytes.
func (h Header) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, HeaderSize))
}

// AppendBinary appends the encoding of h to b.
func (h Header) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, h.Version[:]...)
	b = binary.LittleEndian.AppendUint32(b, h.UserHeaderSize)
	b = binary.LittleEndian.AppendUint32(b, h.ItemSize)
	b = binary.LittleEndian.AppendUint32(b, h.Count)
	return b, nil
}

// UnmarshalBinary decodes and validates a header.
// The full version tag must match and the item size must be nonzero.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrShortHeader, len(data), HeaderSize)
	}
	if err := CheckStamp(data[:VersionSize]); err != nil {
		return err
	}

	var dec Header
	copy(dec.Version[:], data[:VersionSize])
	dec.UserHeaderSize = binary.LittleEndian.Uint32(data[10:14])
	dec.ItemSize = binary.LittleEndian.Uint32(data[14:18])
	dec.Count = binary.LittleEndian.Uint32(data[18:22])

	if dec.ItemSize == 0 {
		return fmt.Errorf("%w: zero item size", ErrHeaderMismatch)
	}
	*h = dec
	return nil
}

// CheckStamp validates a 10-byte version tag or data file stamp.
func CheckStamp(stamp []byte) error {
	if !bytes.Equal(stamp, Version[:]) {
		return fmt.Errorf("%w: version %q", ErrHeaderMismatch, stamp)
	}
	return nil
}

// IndexOffset is the offset of the ID table in the index file.
func (h *Header) IndexOffset() int64 {
	return HeaderSize + int64(h.UserHeaderSize)
}

// IDOffset is the offset of the ID table entry of record index.
func (h *Header) IDOffset(index uint32) int64 {
	return h.IndexOffset() + IDSize*int64(index)
}

// RecordOffset is the offset of record index in the data file.
func (h *Header) RecordOffset(index uint32) int64 {
	return DataOffset + int64(h.ItemSize)*int64(index)
}
