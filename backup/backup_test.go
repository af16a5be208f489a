package backup

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(b []byte) Section {
	return Section{R: bytes.NewReader(b), Size: int64(len(b))}
}

func TestRoundTrip(t *testing.T) {
	index := bytes.Repeat([]byte("index-"), 500)
	data := bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7}, 4096)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			var archive bytes.Buffer
			require.NoError(t, Write(&archive, c, section(index), section(data)))

			raw := archive.Bytes()
			assert.Equal(t, []byte("LDBK"), raw[:4])
			assert.Equal(t, byte(1), raw[4])
			assert.Equal(t, byte(c), raw[5])
			if c != CompressionNone {
				assert.Less(t, len(raw), len(index)+len(data))
			}

			var gotIndex, gotData bytes.Buffer
			require.NoError(t, Read(bytes.NewReader(raw), &gotIndex, &gotData))
			assert.Equal(t, index, gotIndex.Bytes())
			assert.Equal(t, data, gotData.Bytes())
		})
	}
}

func TestEmptySections(t *testing.T) {
	var archive bytes.Buffer
	require.NoError(t, Write(&archive, CompressionZstd, section(nil), section(nil)))

	var gotIndex, gotData bytes.Buffer
	require.NoError(t, Read(&archive, &gotIndex, &gotData))
	assert.Zero(t, gotIndex.Len())
	assert.Zero(t, gotData.Len())
}

func TestUncompressedLayout(t *testing.T) {
	var archive bytes.Buffer
	require.NoError(t, Write(&archive, CompressionNone, section([]byte("ab")), section([]byte("c"))))

	raw := archive.Bytes()
	// prologue + 8 + 2 + 8 + 1 + 4
	require.Len(t, raw, 6+8+2+8+1+4)
	assert.Equal(t, []byte{2, 0, 0, 0, 0, 0, 0, 0}, raw[6:14])
	assert.Equal(t, "ab", string(raw[14:16]))
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, raw[16:24])
	assert.Equal(t, "c", string(raw[24:25]))
}

func TestWriteErrors(t *testing.T) {
	err := Write(io.Discard, Compression(9), section(nil), section(nil))
	assert.ErrorIs(t, err, ErrUnknownCompression)

	// The section reader holds fewer bytes than announced.
	short := Section{R: bytes.NewReader([]byte("abc")), Size: 10}
	err = Write(io.Discard, CompressionNone, short, section(nil))
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadCorrupt(t *testing.T) {
	var archive bytes.Buffer
	require.NoError(t, Write(&archive, CompressionNone, section([]byte("index")), section([]byte("data"))))
	valid := archive.Bytes()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"magic", func(b []byte) []byte { b[0] = 'X'; return b }, ErrCorrupt},
		{"version", func(b []byte) []byte { b[4] = 2; return b }, ErrCorrupt},
		{"compression", func(b []byte) []byte { b[5] = 7; return b }, ErrCorrupt},
		{"payload bit flip", func(b []byte) []byte { b[15] ^= 0x01; return b }, ErrCorrupt},
		{"checksum", func(b []byte) []byte { b[len(b)-1] ^= 0xFF; return b }, ErrCorrupt},
		{"truncated section", func(b []byte) []byte { return b[:17] }, io.ErrUnexpectedEOF},
		{"truncated checksum", func(b []byte) []byte { return b[:len(b)-2] }, io.ErrUnexpectedEOF},
		{"truncated prologue", func(b []byte) []byte { return b[:3] }, io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(append([]byte(nil), valid...))
			err := Read(bytes.NewReader(b), io.Discard, io.Discard)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
