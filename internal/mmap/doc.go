// Package mmap maps database files read-only into memory.
//
// A mapped file is served straight from the page cache, which saves a copy
// per read when a database is only inspected, for example a firmware image
// mounted on a build host.
//
//	m, err := mmap.Open("db.idx", mmap.HintRandom)
//	if err != nil { ... }
//	defer m.Close()
//	n, err := m.ReadAt(buf, off)
//
// Unix targets use mmap(2) and madvise(2). Windows uses MapViewOfFile and
// ignores hints. On other targets Open fails with errors.ErrUnsupported.
//
// ReadAt may be called concurrently. Close must not race with reads.
package mmap
