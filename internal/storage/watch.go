package storage

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"
)

// Watch calls fn with the key of every write to one of keys until ctx is
// cancelled. An attached DB subscribes to its own writes. A detached DB
// polls the key versions every PollInterval, which also observes writes
// from other processes.
func (d *DB) Watch(ctx context.Context, keys []string, fn func(key string)) error {
	if d.Detached() {
		return d.poll(ctx, keys, fn)
	}

	d.mu.Lock()
	db := d.db
	d.mu.Unlock()
	if db == nil {
		return badger.ErrDBClosed
	}

	matches := make([]pb.Match, len(keys))
	for i, key := range keys {
		matches[i] = pb.Match{Prefix: []byte(key)}
	}

	err := db.Subscribe(ctx, func(kvs *badger.KVList) error {
		for _, kv := range kvs.Kv {
			fn(string(kv.Key))
		}
		return nil
	}, matches)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// poll compares the commit version of each key against the last seen one.
func (d *DB) poll(ctx context.Context, keys []string, fn func(key string)) error {
	interval := d.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	last, err := d.versions(keys)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		current, err := d.versions(keys)
		if err != nil {
			// A writer may hold the lock longer than we wait; try next tick.
			if isLockError(err) {
				continue
			}
			return err
		}
		for _, key := range keys {
			if current[key] != last[key] {
				fn(key)
			}
		}
		last = current
	}
}

// versions returns the commit version of each key, zero when absent.
func (d *DB) versions(keys []string) (map[string]uint64, error) {
	out := make(map[string]uint64, len(keys))
	err := d.view(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out[key] = item.Version()
		}
		return nil
	})
	return out, err
}
