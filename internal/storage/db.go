// Package storage provides the local key/value store for JobTrack.
// Every collection lives under one key as JSON text, the same layout a
// browser build keeps in local storage.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"
)

const (
	// AppName is the application name used for data directories.
	AppName = "jobtrack"
)

// DefaultPollInterval is how often a detached DB checks for writes.
const DefaultPollInterval = time.Second

// lockWait bounds how long a detached DB waits for another process to
// release the directory lock.
const lockWait = 3 * time.Second

// ErrInMemory is returned when detaching a database without a directory.
var ErrInMemory = errors.New("in-memory database cannot be detached")

// DB wraps a Badger database connection.
//
// Badger holds an exclusive lock on its directory while open. A detached DB
// releases that lock and opens the directory for each operation instead, so
// other jobtrack processes can write between operations.
type DB struct {
	mu       sync.Mutex
	db       *badger.DB
	opts     badger.Options
	path     string
	detached bool

	// PollInterval is how often Watch looks for writes while detached.
	PollInterval time.Duration
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the default database path following XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options
	path := ""

	if opts.InMemory || opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
		path = opts.Path
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := openLocked(badgerOpts)
	if err != nil {
		return nil, err
	}

	return &DB{db: db, opts: badgerOpts, path: path, PollInterval: DefaultPollInterval}, nil
}

// Close closes the database connection. Closing a detached DB is a no-op.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.detached || d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// Detach closes the open handle and releases the directory lock. Later
// operations open the directory, run and close it again.
func (d *DB) Detach() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.path == "" {
		return ErrInMemory
	}
	if d.detached {
		return nil
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			return err
		}
		d.db = nil
	}
	d.detached = true
	return nil
}

// Detached reports whether the DB opens its directory per operation.
func (d *DB) Detached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detached
}

// with runs fn against an open Badger handle.
func (d *DB) with(fn func(db *badger.DB) error) error {
	d.mu.Lock()
	if !d.detached {
		db := d.db
		d.mu.Unlock()
		if db == nil {
			return badger.ErrDBClosed
		}
		return fn(db)
	}

	// Two handles in one process would fight over the lock too.
	defer d.mu.Unlock()
	db, err := openLocked(d.opts)
	if err != nil {
		return err
	}
	err = fn(db)
	if cerr := db.Close(); err == nil {
		err = cerr
	}
	return err
}

// openLocked opens a directory, retrying while another process holds it.
func openLocked(opts badger.Options) (*badger.DB, error) {
	deadline := time.Now().Add(lockWait)
	for {
		db, err := badger.Open(opts)
		if err == nil || !isLockError(err) || time.Now().After(deadline) {
			return db, err
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// isLockError reports a failure to acquire the directory lock. Badger
// formats the cause into the message instead of wrapping it.
func isLockError(err error) bool {
	return strings.Contains(err.Error(), "Cannot acquire directory lock")
}

// Path returns the database directory, empty for in-memory databases.
func (d *DB) Path() string {
	return d.path
}

