// Package fs provides the byte-addressable storage abstraction the database
// runs on, plus implementations for production, embedded and test use.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with read/write/seek/sync/close
//   - [FileSystem]: opens named files
//
// # Implementations
//
//   - [LocalFS]: the host file system via the os package
//   - [MemFS]: an in-memory file system (RAM disk, tests)
//   - [MmapFS]: read-only, memory-mapped files
//   - [ThrottledFS]: rate-limits writes of another FileSystem
//   - [FaultyFS]: fault injection for tests (simulate I/O errors)
//
// # Exact transfers
//
// The database treats a short read or a short write as an I/O failure. The
// helpers [ReadFull], [WriteFull] and [SeekTo] enforce this and wrap every
// failure in an [*OpError].
//
// # Design Notes
//
// This package intentionally does NOT include context.Context parameters.
// The storage targets (local disks, SD cards, FAT volumes) are non-interruptible
// at the call level, and the database has no cancellation model.
package fs
