package format

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderLayout(t *testing.T) {
	h := NewHeader(10, 3)
	h.Count = 0x01020304

	b, err := h.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, HeaderSize)
	assert.Equal(t, 22, HeaderSize)

	assert.Equal(t, "LighDB001\x00", string(b[0:10]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(b[10:14]))
	assert.Equal(t, uint32(10), binary.LittleEndian.Uint32(b[14:18]))
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b[18:22])

	var got Header
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, h, got)
}

func TestHeaderUnmarshalErrors(t *testing.T) {
	valid, err := NewHeader(8, 0).MarshalBinary()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"short", func(b []byte) []byte { return b[:HeaderSize-1] }, ErrShortHeader},
		{"first byte", func(b []byte) []byte { b[0] = 'l'; return b }, ErrHeaderMismatch},
		{"version digit", func(b []byte) []byte { b[8] = '2'; return b }, ErrHeaderMismatch},
		{"padding byte", func(b []byte) []byte { b[9] = ' '; return b }, ErrHeaderMismatch},
		{"zero item size", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[14:18], 0); return b }, ErrHeaderMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(append([]byte(nil), valid...))

			h := Header{ItemSize: 99}
			err := h.UnmarshalBinary(b)
			assert.ErrorIs(t, err, tt.want)
			// A failed decode leaves the destination untouched.
			assert.Equal(t, Header{ItemSize: 99}, h)
		})
	}
}

func TestCheckStamp(t *testing.T) {
	assert.NoError(t, CheckStamp(Version[:]))
	assert.ErrorIs(t, CheckStamp([]byte("LighDB002\x00")), ErrHeaderMismatch)
	assert.ErrorIs(t, CheckStamp(Version[:9]), ErrHeaderMismatch)
}

func TestOffsets(t *testing.T) {
	h := NewHeader(10, 5)

	assert.Equal(t, int64(27), h.IndexOffset())
	assert.Equal(t, int64(27), h.IDOffset(0))
	assert.Equal(t, int64(27+4*3), h.IDOffset(3))

	assert.Equal(t, int64(10), h.RecordOffset(0))
	assert.Equal(t, int64(10+10*7), h.RecordOffset(7))

	// No overflow for large indexes and item sizes.
	big := NewHeader(1<<31, 0)
	assert.Equal(t, int64(10)+int64(1<<31)*int64(1<<31), big.RecordOffset(1<<31))
}
