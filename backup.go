package lighdb

import (
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/lighdb/backup"
	"github.com/hupe1980/lighdb/fs"
	"github.com/hupe1980/lighdb/internal/recordstore"
)

// Backup writes an archive of the database to w while holding the instance
// lock. Only the bytes covered by the header are archived: the index file up
// to the end of the ID table and the data file up to the end of the last
// record.
//
// Backup needs an open database but not an ID window: it works before
// SetBuffer has been called.
func (db *DB) Backup(w io.Writer, c backup.Compression) (err error) {
	if err := db.acquire(); err != nil {
		return err
	}
	defer db.release(&err)

	if db.store == nil {
		return ErrNotOpened
	}

	h := db.store.Header()
	index, data := db.store.Files()

	err = func() error {
		if err := fs.SeekTo(index, 0); err != nil {
			return err
		}
		if err := fs.SeekTo(data, 0); err != nil {
			return err
		}
		return backup.Write(w, c,
			backup.Section{R: index, Size: h.IDOffset(h.Count)},
			backup.Section{R: data, Size: h.RecordOffset(h.Count)},
		)
	}()
	if err != nil {
		switch {
		case errors.Is(err, backup.ErrUnknownCompression):
			err = fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		default:
			err = fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	db.log.LogBackup(c.String(), h.Count, err)
	return err
}

// Restore recreates the index and data files at the given paths from an
// archive written by Backup. The restored headers are validated; the
// database can then be opened with Open.
func Restore(r io.Reader, fsys fs.FileSystem, indexPath, dataPath string) (err error) {
	if indexPath == "" || dataPath == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	if fsys == nil {
		fsys = fs.Default
	}

	index, err := fsys.OpenFile(indexPath, fs.FlagCreate, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	data, err := fsys.OpenFile(dataPath, fs.FlagCreate, 0o644)
	if err != nil {
		_ = index.Close()
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := closeFiles(index, data); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
	}()

	if err := backup.Read(r, index, data); err != nil {
		if errors.Is(err, backup.ErrCorrupt) {
			return fmt.Errorf("%w: %w", ErrHeaderMismatch, err)
		}
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := fs.Sync(index); err != nil {
		return translateError(err)
	}
	if err := fs.Sync(data); err != nil {
		return translateError(err)
	}

	_, err = recordstore.Load(index, data, false)
	return translateError(err)
}
