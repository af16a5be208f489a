// Package lighdb provides a minimal fixed-record key-value store for
// resource-constrained environments, built on two plain files.
//
// The index file holds a small header, an opaque user header and the ID
// table, one u32 per record. The data file holds fixed-size records
// back-to-back. Records are appended, updated in place and looked up either
// by their position (the index, unique and permanent) or by a caller-chosen
// 32-bit ID that need not be unique.
//
// # Quick Start
//
//	db, _ := lighdb.Create("db.idx", "db.dat", 16, []byte("v1"))
//	defer db.Close()
//
//	// The ID window: IDs are paged through this buffer, never loaded whole.
//	_ = db.SetBuffer(make([]uint32, lighdb.DefaultMinWindow))
//
//	index, _ := db.Add([]byte("sixteen bytes..."), 42)
//	buf := make([]byte, 16)
//	_ = db.GetByIndex(index, buf)
//	_ = db.Get(42, buf)
//
// # ID lookups
//
// The engine never holds more of the ID table than the window passed to
// SetBuffer. FindByID pages through the table one window at a time and
// reports every match, lowest index first:
//
//	out := make([]uint32, 8)
//	res, _ := db.FindByID(42, out)
//	if res.Truncated {
//	    // more than len(out) records carry ID 42; res.Matched has the total
//	}
//
// FindAll returns every match as a roaring bitmap.
//
// # Concurrency
//
// Every public operation holds a single per-instance lock from entry to
// exit. The lock implementation is pluggable (see package lock); the
// default is a sync.Mutex.
//
// # Storage
//
// Files are opened through an fs.FileSystem: the local file system by
// default, fs.MemFS for a RAM disk, fs.ThrottledFS for rate-limited flash
// and fs.MmapFS for read-only memory-mapped access.
//
// # Durability
//
// Add writes the record, its ID and then the header; it is not atomic across
// a crash. WithSyncWrites flushes the touched files after every write.
// Backup and Restore move a database as a single compressed archive.
package lighdb
