// Package backup reads and writes compressed archives of a database's index
// and data files.
//
// Archive format:
//
//	[0] magic "LDBK"
//	[4] format version, u8 (1)
//	[5] compression, u8 (0 none, 1 lz4, 2 zstd)
//	[6] payload, compressed with the selected codec:
//	      index size u64, index bytes,
//	      data size u64, data bytes,
//	      crc32 (IEEE) u32 of index bytes followed by data bytes
//
// All integers are little-endian.
package backup

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the codec of an archive payload.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0
	// CompressionLZ4 compresses the payload with the LZ4 frame format (fast).
	CompressionLZ4 Compression = 1
	// CompressionZstd compresses the payload with zstd (better ratio).
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

const (
	formatVersion = 1
	prologueSize  = 6
)

var magic = [4]byte{'L', 'D', 'B', 'K'}

var (
	// ErrCorrupt is returned when an archive has an unknown magic, version or
	// compression, or fails its checksum.
	ErrCorrupt = errors.New("backup: corrupt archive")
	// ErrUnknownCompression is returned by Write for an unsupported codec.
	ErrUnknownCompression = errors.New("backup: unknown compression")
)

// Section is one file of an archive.
type Section struct {
	R    io.Reader
	Size int64
}

// Write writes an archive of index and data to w. Exactly Size bytes are
// read from each section.
func Write(w io.Writer, c Compression, index, data Section) error {
	if c > CompressionZstd {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	prologue := [prologueSize]byte{magic[0], magic[1], magic[2], magic[3], formatVersion, byte(c)}
	if _, err := w.Write(prologue[:]); err != nil {
		return err
	}

	enc, err := newEncoder(w, c)
	if err != nil {
		return err
	}

	crc := crc32.NewIEEE()
	for _, s := range []Section{index, data} {
		if err := writeSection(enc, crc, s); err != nil {
			_ = enc.Close()
			return err
		}
	}
	if err := binary.Write(enc, binary.LittleEndian, crc.Sum32()); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func writeSection(w io.Writer, crc hash.Hash32, s Section) error {
	if s.Size < 0 {
		return fmt.Errorf("backup: negative section size %d", s.Size)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(s.Size)); err != nil {
		return err
	}
	if _, err := io.CopyN(io.MultiWriter(w, crc), s.R, s.Size); err != nil {
		return fmt.Errorf("backup: copy section: %w", err)
	}
	return nil
}

// Read extracts an archive from r, writing the index section to index and
// the data section to data. The checksum is verified after both sections
// were written; on ErrCorrupt the written bytes must be discarded.
func Read(r io.Reader, index, data io.Writer) error {
	var prologue [prologueSize]byte
	if _, err := io.ReadFull(r, prologue[:]); err != nil {
		return fmt.Errorf("backup: read prologue: %w", err)
	}
	if [4]byte(prologue[:4]) != magic {
		return fmt.Errorf("%w: bad magic %q", ErrCorrupt, prologue[:4])
	}
	if prologue[4] != formatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, prologue[4])
	}

	dec, err := newDecoder(r, Compression(prologue[5]))
	if err != nil {
		return err
	}
	defer dec.Close()

	crc := crc32.NewIEEE()
	for _, w := range []io.Writer{index, data} {
		if err := readSection(dec, crc, w); err != nil {
			return err
		}
	}

	var sum uint32
	if err := binary.Read(dec, binary.LittleEndian, &sum); err != nil {
		return fmt.Errorf("backup: read checksum: %w", err)
	}
	if sum != crc.Sum32() {
		return fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	return nil
}

func readSection(r io.Reader, crc hash.Hash32, w io.Writer) error {
	var size uint64
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return fmt.Errorf("backup: read section size: %w", err)
	}
	if size > 1<<62 {
		return fmt.Errorf("%w: section size %d", ErrCorrupt, size)
	}
	n, err := io.CopyN(io.MultiWriter(w, crc), r, int64(size))
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return fmt.Errorf("backup: read section (%d of %d bytes): %w", n, size, err)
	}
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func newEncoder(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
}

type decoder struct {
	io.Reader
	close func()
}

func (d decoder) Close() {
	if d.close != nil {
		d.close()
	}
}

func newDecoder(r io.Reader, c Compression) (decoder, error) {
	switch c {
	case CompressionNone:
		return decoder{Reader: r}, nil
	case CompressionLZ4:
		return decoder{Reader: lz4.NewReader(r)}, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return decoder{}, err
		}
		return decoder{Reader: dec, close: dec.Close}, nil
	default:
		return decoder{}, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, uint8(c))
	}
}
