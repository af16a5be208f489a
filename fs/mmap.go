package fs

import (
	"errors"
	"io"
	"os"

	"github.com/hupe1980/lighdb/internal/mmap"
)

// MmapFS is a read-only FileSystem serving files from read-only memory
// mappings of the host file system. Opening with any write or create flag
// fails with ErrReadOnly.
//
// A mapping covers the file size at open time, so files must not grow
// while they are open through MmapFS.
type MmapFS struct {
	// Sequential hints the kernel that files are read front to back
	// (bulk scans, backups). Default is random access.
	Sequential bool
}

func (m MmapFS) OpenFile(name string, flag int, _ os.FileMode) (File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrReadOnly}
	}
	hint := mmap.HintRandom
	if m.Sequential {
		hint = mmap.HintSequential
	}
	mp, err := mmap.Open(name, hint)
	if err != nil {
		return nil, err
	}
	return &mmapFile{m: mp}, nil
}

type mmapFile struct {
	m   *mmap.Mapping
	pos int64
}

func (f *mmapFile) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := f.m.ReadAt(p, f.pos)
	f.pos += int64(n)
	if n > 0 && err == io.EOF {
		err = nil
	}
	return n, err
}

func (f *mmapFile) Write([]byte) (int, error) {
	return 0, ErrReadOnly
}

func (f *mmapFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		base = int64(f.m.Len())
	default:
		return 0, errors.New("fs: invalid whence")
	}
	if base+offset < 0 {
		return 0, errors.New("fs: negative position")
	}
	f.pos = base + offset
	return f.pos, nil
}

func (f *mmapFile) Sync() error {
	return nil
}

func (f *mmapFile) Close() error {
	return f.m.Close()
}
