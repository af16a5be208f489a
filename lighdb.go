package lighdb

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/lighdb/fs"
	"github.com/hupe1980/lighdb/internal/idcache"
	"github.com/hupe1980/lighdb/internal/recordstore"
	"github.com/hupe1980/lighdb/lock"
)

// Info describes an open database.
type Info struct {
	ItemSize       uint32
	UserHeaderSize uint32
	Count          uint32
}

// FindResult is the outcome of FindByID.
type FindResult struct {
	// Matched is the total number of records carrying the ID.
	Matched int
	// Truncated reports that Matched exceeds the output capacity; only the
	// lowest indexes were written.
	Truncated bool
}

// Kind returns KindTruncated for a truncated result and KindOK otherwise.
func (r FindResult) Kind() ErrorKind {
	if r.Truncated {
		return KindTruncated
	}
	return KindOK
}

// DB is a fixed-record database made of an index file and a data file.
//
// Every method holds the instance lock for its whole duration, so a DB is
// safe for concurrent use. A DB starts Closed; Create or Open move it to
// Open and Close moves it back.
type DB struct {
	opts      options
	mu        lock.Handle
	destroyed atomic.Bool

	// Guarded by mu.
	store *recordstore.Store
	cache *idcache.Cache
	log   *Logger
}

// New returns a closed DB configured by opts.
func New(opts ...Option) (*DB, error) {
	o := applyOptions(opts)
	if o.minWindow < 1 {
		return nil, fmt.Errorf("%w: minimum window %d", ErrInvalidArgument, o.minWindow)
	}

	h, err := o.lockBackend.Create()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLock, err)
	}
	return &DB{opts: o, mu: h, log: o.logger}, nil
}

// Create creates a database at the given paths and returns it Open.
func Create(indexPath, dataPath string, itemSize uint32, userHeader []byte, opts ...Option) (*DB, error) {
	db, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := db.Create(indexPath, dataPath, itemSize, userHeader); err != nil {
		_ = db.Destroy()
		return nil, err
	}
	return db, nil
}

// Open opens the database at the given paths.
func Open(indexPath, dataPath string, opts ...Option) (*DB, error) {
	db, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := db.Open(indexPath, dataPath); err != nil {
		_ = db.Destroy()
		return nil, err
	}
	return db, nil
}

func (db *DB) acquire() error {
	if db.destroyed.Load() || !db.mu.Acquire() {
		return ErrLock
	}
	// Destroy may have run while this call waited for the lock.
	if db.destroyed.Load() {
		db.mu.Release()
		return ErrLock
	}
	return nil
}

func (db *DB) release(errp *error) {
	if !db.mu.Release() && *errp == nil {
		*errp = ErrLock
	}
}

// Create truncates or creates both files and writes an empty database with
// the given item size and user header. The ID window is left unset.
func (db *DB) Create(indexPath, dataPath string, itemSize uint32, userHeader []byte) (err error) {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.release(&err)

	switch {
	case indexPath == "" || dataPath == "":
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	case itemSize == 0:
		return fmt.Errorf("%w: zero item size", ErrInvalidArgument)
	case db.opts.readOnly:
		return ErrReadOnly
	case db.store != nil:
		return ErrAlreadyOpen
	}

	log := db.opts.logger.WithPaths(indexPath, dataPath)
	index, data, err := db.openFiles(indexPath, dataPath, fs.FlagCreate)
	if err == nil {
		db.store, err = recordstore.Create(index, data, itemSize, userHeader, db.opts.syncWrites)
		if err != nil {
			closeFiles(index, data)
		}
	}
	err = translateError(err)
	log.LogCreate(itemSize, len(userHeader), err)
	if err != nil {
		return err
	}

	db.log = log
	return nil
}

// Open opens an existing database. Both the index header and the data file
// stamp are validated. The ID window is left unset.
func (db *DB) Open(indexPath, dataPath string) (err error) {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.release(&err)

	switch {
	case indexPath == "" || dataPath == "":
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	case db.store != nil:
		return ErrAlreadyOpen
	}

	flag := fs.FlagOpen
	if db.opts.readOnly {
		flag = fs.FlagReadOnly
	}

	log := db.opts.logger.WithPaths(indexPath, dataPath)
	index, data, err := db.openFiles(indexPath, dataPath, flag)
	if err == nil {
		db.store, err = recordstore.Load(index, data, db.opts.syncWrites)
		if err != nil {
			closeFiles(index, data)
		}
	}
	err = translateError(err)
	log.LogOpen(db.info(), db.opts.readOnly, err)
	if err != nil {
		return err
	}

	db.log = log
	return nil
}

func (db *DB) openFiles(indexPath, dataPath string, flag int) (fs.File, fs.File, error) {
	index, err := db.opts.fileSystem.OpenFile(indexPath, flag, 0o644)
	if err != nil {
		return nil, nil, &fs.OpError{Op: "open", Err: err}
	}
	data, err := db.opts.fileSystem.OpenFile(dataPath, flag, 0o644)
	if err != nil {
		_ = index.Close()
		return nil, nil, &fs.OpError{Op: "open", Err: err}
	}
	return index, data, nil
}

func closeFiles(files ...fs.File) error {
	var errs []error
	for _, f := range files {
		if err := fs.Close(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes both files and forgets the ID window. The database is Closed
// afterwards even when closing a file failed.
func (db *DB) Close() (err error) {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.release(&err)

	if db.store == nil {
		return ErrNotOpened
	}

	index, data := db.store.Files()
	err = closeFiles(index, data)
	db.store = nil
	db.cache = nil

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrIO, err)
	}
	db.log.LogClose(err)
	db.log = db.opts.logger
	return err
}

// Destroy releases the instance lock. The database must be Closed; every
// call made afterwards fails with ErrLock.
func (db *DB) Destroy() (err error) {
	if err := db.acquire(); err != nil {
		return err
	}
	if db.store != nil {
		db.release(&err)
		if err != nil {
			return err
		}
		return ErrAlreadyOpen
	}

	db.destroyed.Store(true)
	db.release(&err)
	if err != nil {
		return err
	}
	if derr := db.mu.Destroy(); derr != nil {
		return fmt.Errorf("%w: %w", ErrLock, derr)
	}
	return nil
}

// SetBuffer installs buf as the ID window. The database pages through the
// on-disk ID table len(buf) entries at a time and only ever touches buf
// while a call is in flight. len(buf) must be at least MinWindow.
func (db *DB) SetBuffer(buf []uint32) (err error) {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.release(&err)

	if db.store == nil {
		return ErrNotOpened
	}
	if len(buf) < db.opts.minWindow {
		return &BufferSizeError{Required: db.opts.minWindow, Actual: len(buf)}
	}
	db.cache = idcache.New(buf)
	return nil
}

// MinWindow returns the minimum ID window capacity, in entries, accepted by
// SetBuffer.
func (db *DB) MinWindow() int { return db.opts.minWindow }

// Info returns the header of an open database.
func (db *DB) Info() (_ Info, err error) {
	if err := db.acquire(); err != nil {
		return Info{}, err
	}
	defer db.release(&err)

	if db.store == nil {
		return Info{}, ErrNotOpened
	}
	return db.info(), nil
}

func (db *DB) info() Info {
	if db.store == nil {
		return Info{}
	}
	h := db.store.Header()
	return Info{ItemSize: h.ItemSize, UserHeaderSize: h.UserHeaderSize, Count: h.Count}
}

// checkReady validates the state every guarded operation requires.
func (db *DB) checkReady() error {
	if db.store == nil {
		return ErrNotOpened
	}
	if db.cache == nil {
		return ErrNoBuffer
	}
	return nil
}

func (db *DB) checkWritable() error {
	if db.opts.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (db *DB) checkRecordBuffer(buf []byte) error {
	itemSize := db.store.ItemSize()
	if uint64(len(buf)) < uint64(itemSize) {
		return &BufferSizeError{Required: int(itemSize), Actual: len(buf)}
	}
	return nil
}

// resolve returns the lowest index carrying id.
func (db *DB) resolve(id uint32) (uint32, error) {
	var out [1]uint32
	matched, err := db.find(id, out[:])
	if err != nil {
		return 0, err
	}
	if matched == 0 {
		return 0, fmt.Errorf("%w: %d", ErrNoSuchID, id)
	}
	return out[0], nil
}

func (db *DB) find(id uint32, out []uint32) (int, error) {
	start := time.Now()
	loads := db.cache.Loads()

	matched, err := db.cache.Find(db.store, id, out)
	err = translateError(err)

	loads = db.cache.Loads() - loads
	db.opts.metricsCollector.RecordFind(matched, loads, time.Since(start), err)
	db.log.LogFind(id, matched, loads, err)
	return matched, err
}

// Get copies the first record carrying id into buf.
func (db *DB) Get(id uint32, buf []byte) (err error) {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.release(&err)

	start := time.Now()
	defer func() { db.opts.metricsCollector.RecordGet(time.Since(start), err) }()

	if err := db.checkReady(); err != nil {
		return err
	}
	if err := db.checkRecordBuffer(buf); err != nil {
		return err
	}
	index, err := db.resolve(id)
	if err != nil {
		return err
	}
	return db.get(index, buf)
}

// GetByIndex copies record index into buf.
func (db *DB) GetByIndex(index uint32, buf []byte) (err error) {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.release(&err)

	start := time.Now()
	defer func() { db.opts.metricsCollector.RecordGet(time.Since(start), err) }()

	if err := db.checkReady(); err != nil {
		return err
	}
	if err := db.checkRecordBuffer(buf); err != nil {
		return err
	}
	return db.get(index, buf)
}

func (db *DB) get(index uint32, buf []byte) error {
	return translateError(db.store.Read(index, buf))
}

// Update overwrites the first record carrying id with data.
func (db *DB) Update(id uint32, data []byte) (err error) {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.release(&err)

	start := time.Now()
	defer func() { db.opts.metricsCollector.RecordUpdate(time.Since(start), err) }()

	if err := db.checkReady(); err != nil {
		return err
	}
	if err := db.checkWritable(); err != nil {
		return err
	}
	if err := db.checkRecordBuffer(data); err != nil {
		return err
	}
	index, err := db.resolve(id)
	if err != nil {
		return err
	}
	return db.update(index, data)
}

// UpdateByIndex overwrites record index with data. Its position, its ID and
// every other record are left unchanged.
func (db *DB) UpdateByIndex(index uint32, data []byte) (err error) {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.release(&err)

	start := time.Now()
	defer func() { db.opts.metricsCollector.RecordUpdate(time.Since(start), err) }()

	if err := db.checkReady(); err != nil {
		return err
	}
	if err := db.checkWritable(); err != nil {
		return err
	}
	if err := db.checkRecordBuffer(data); err != nil {
		return err
	}
	return db.update(index, data)
}

func (db *DB) update(index uint32, data []byte) error {
	err := translateError(db.store.Write(index, data))
	db.log.LogUpdate(index, err)
	return err
}

// Add appends data as a new record tagged with id and returns its index.
// Only the first ItemSize bytes of data are stored.
func (db *DB) Add(data []byte, id uint32) (_ uint32, err error) {
	if err := db.acquire(); err != nil {
		return 0, err
	}
	defer db.release(&err)

	start := time.Now()
	defer func() { db.opts.metricsCollector.RecordAdd(time.Since(start), err) }()

	if err := db.checkReady(); err != nil {
		return 0, err
	}
	if err := db.checkWritable(); err != nil {
		return 0, err
	}
	if err := db.checkRecordBuffer(data); err != nil {
		return 0, err
	}

	next := db.store.Count()
	index, err := db.store.Append(data, id)
	if db.store.Count() > next {
		db.cache.Appended(next, id)
	}
	err = translateError(err)
	db.log.LogAdd(index, id, err)
	if err != nil {
		return 0, err
	}
	return index, nil
}

// FindByID writes the indexes of the records carrying id to out, lowest
// first. Every record is visited regardless of the window capacity.
// Matched is the true total; when it exceeds len(out) the result is
// Truncated. A nil out only counts.
func (db *DB) FindByID(id uint32, out []uint32) (_ FindResult, err error) {
	if err := db.acquire(); err != nil {
		return FindResult{}, err
	}
	defer db.release(&err)

	if err := db.checkReady(); err != nil {
		return FindResult{}, err
	}
	matched, err := db.find(id, out)
	if err != nil {
		return FindResult{}, err
	}
	return FindResult{Matched: matched, Truncated: matched > len(out)}, nil
}

// FindAll returns the indexes of every record carrying id. It pages through
// the ID table like FindByID with no output cap.
func (db *DB) FindAll(id uint32) (_ *roaring.Bitmap, err error) {
	if err := db.acquire(); err != nil {
		return nil, err
	}
	defer db.release(&err)

	if err := db.checkReady(); err != nil {
		return nil, err
	}

	start := time.Now()
	loads := db.cache.Loads()

	bm := roaring.New()
	err = translateError(db.cache.Scan(db.store, id, func(index uint32, _ bool) {
		bm.Add(index)
	}))

	loads = db.cache.Loads() - loads
	matched := int(bm.GetCardinality())
	db.opts.metricsCollector.RecordFind(matched, loads, time.Since(start), err)
	db.log.LogFind(id, matched, loads, err)
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// GetHeader copies the user header into buf, clipped to the declared user
// header size, and returns the number of bytes copied.
func (db *DB) GetHeader(buf []byte) (_ int, err error) {
	if err := db.acquire(); err != nil {
		return 0, err
	}
	defer db.release(&err)

	if err := db.checkReady(); err != nil {
		return 0, err
	}
	n, err := db.store.ReadUserHeader(buf)
	return n, translateError(err)
}

// SetHeader overwrites the user header with data, clipped to the declared
// user header size, and returns the number of bytes written.
func (db *DB) SetHeader(data []byte) (_ int, err error) {
	if err := db.acquire(); err != nil {
		return 0, err
	}
	defer db.release(&err)

	if err := db.checkReady(); err != nil {
		return 0, err
	}
	if err := db.checkWritable(); err != nil {
		return 0, err
	}
	n, err := db.store.WriteUserHeader(data)
	return n, translateError(err)
}
