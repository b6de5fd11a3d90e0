package storage

import (
	"errors"

	badger "github.com/dgraph-io/badger/v4"
)

// GetRaw returns the text stored under key. ok is false when the key is absent.
func (d *DB) GetRaw(key string) (data []byte, ok bool, err error) {
	err = d.view(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		data, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}
		ok = true
		return nil
	})
	return data, ok, err
}

// SetRaw stores text under key, replacing any previous value.
func (d *DB) SetRaw(key string, data []byte) error {
	return d.update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// SetMany stores several keys in a single transaction: either every key is
// written or none is.
func (d *DB) SetMany(values map[string][]byte) error {
	return d.update(func(txn *badger.Txn) error {
		for key, data := range values {
			if err := txn.Set([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a key. Deleting an absent key is not an error.
func (d *DB) Delete(key string) error {
	return d.update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Snapshot returns the raw text under each key. Absent keys map to nil.
// All values are read from one consistent view.
func (d *DB) Snapshot(keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	err := d.view(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				out[key] = nil
				continue
			}
			if err != nil {
				return err
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out[key] = data
		}
		return nil
	})
	return out, err
}

func (d *DB) view(fn func(txn *badger.Txn) error) error {
	return d.with(func(db *badger.DB) error { return db.View(fn) })
}

func (d *DB) update(fn func(txn *badger.Txn) error) error {
	return d.with(func(db *badger.DB) error { return db.Update(fn) })
}
