//go:build unix || windows

package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.idx")
	content := []byte("LighDB001\x00mapped contents")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	for _, hint := range []Hint{HintNone, HintSequential, HintRandom} {
		m, err := Open(path, hint)
		require.NoError(t, err)
		assert.Equal(t, len(content), m.Len())

		buf := make([]byte, 6)
		n, err := m.ReadAt(buf, 10)
		require.NoError(t, err)
		assert.Equal(t, "mapped", string(buf[:n]))

		n, err = m.ReadAt(buf, int64(len(content)-3))
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, "nts", string(buf[:n]))

		_, err = m.ReadAt(buf, int64(len(content)))
		assert.ErrorIs(t, err, io.EOF)

		require.NoError(t, m.Close())
		require.NoError(t, m.Close())
		_, err = m.ReadAt(buf, 0)
		assert.ErrorIs(t, err, ErrClosed)
	}
}

func TestMappingEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path, HintRandom)
	require.NoError(t, err)
	defer m.Close()

	assert.Zero(t, m.Len())
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"), HintNone)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
