package lighdb

import (
	"log/slog"

	"github.com/hupe1980/lighdb/fs"
	"github.com/hupe1980/lighdb/lock"
)

// DefaultMinWindow is the default minimum ID window capacity in entries
// (256 bytes of IDs).
const DefaultMinWindow = 64

type options struct {
	fileSystem       fs.FileSystem
	lockBackend      lock.Backend
	metricsCollector MetricsCollector
	logger           *Logger
	minWindow        int
	readOnly         bool
	syncWrites       bool
}

// Option configures a DB.
type Option func(*options)

// WithFileSystem configures the file system both database files are opened
// on. If nil is passed, fs.Default is used.
//
// Example with an in-memory database:
//
//	mem := fs.NewMemFS()
//	db, _ := lighdb.Create("db.idx", "db.dat", 32, nil, lighdb.WithFileSystem(mem))
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fileSystem = fsys
	}
}

// WithLockBackend configures the backend of the instance lock.
// If nil is passed, lock.MutexBackend is used. Use lock.NoopBackend when the
// database is confined to a single goroutine.
func WithLockBackend(b lock.Backend) Option {
	return func(o *options) {
		if b == nil {
			b = lock.MutexBackend{}
		}
		o.lockBackend = b
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &lighdb.BasicMetricsCollector{}
//	db, _ := lighdb.Open("db.idx", "db.dat", lighdb.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Finds: %d, window loads: %d\n", stats.FindCount, stats.WindowLoads)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := lighdb.NewJSONLogger(slog.LevelInfo)
//	db, _ := lighdb.Open("db.idx", "db.dat", lighdb.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMinWindow sets the minimum ID window capacity, in entries, accepted by
// SetBuffer. It must be at least 1.
func WithMinWindow(entries int) Option {
	return func(o *options) {
		o.minWindow = entries
	}
}

// WithReadOnly opens both files read-only. Create and every mutating
// operation fail with ErrReadOnly before touching storage.
func WithReadOnly() Option {
	return func(o *options) {
		o.readOnly = true
	}
}

// WithSyncWrites flushes the touched files to stable storage after every
// create, add, update and user header write.
func WithSyncWrites(enabled bool) Option {
	return func(o *options) {
		o.syncWrites = enabled
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		fileSystem:       fs.Default,
		lockBackend:      lock.MutexBackend{},
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		minWindow:        DefaultMinWindow,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
