package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/manav03panchal/jobtrack/internal/backend"
	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/model"
)

// LocalCollection persists a whole collection as JSON text under one key.
type LocalCollection[T model.Entity[T]] struct {
	db  *DB
	key string
}

// NewLocalCollection creates a collection stored under key.
func NewLocalCollection[T model.Entity[T]](db *DB, key string) *LocalCollection[T] {
	return &LocalCollection[T]{db: db, key: key}
}

// Name identifies the backend in logs.
func (c *LocalCollection[T]) Name() string {
	return "local:" + c.key
}

// Key returns the storage key of the collection.
func (c *LocalCollection[T]) Key() string {
	return c.key
}

// Load parses the stored collection. A missing key yields an empty collection.
// An unparseable value yields an empty collection together with a
// CorruptionError so the caller can degrade instead of failing.
func (c *LocalCollection[T]) Load(ctx context.Context) ([]T, error) {
	data, ok, err := c.db.GetRaw(c.key)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("load "+c.key, "local storage read failed", err)
	}
	if !ok {
		return []T{}, nil
	}

	items, err := DecodeCollection[T](data)
	if err != nil {
		logging.FromContext(ctx).Warn("discarding corrupted collection",
			logging.KeyStorageKey, c.key,
			logging.KeyError, err,
		)
		return []T{}, errors.NewCorruptionError(c.key, err)
	}
	return items, nil
}

// Apply writes the post-change snapshot.
func (c *LocalCollection[T]) Apply(ctx context.Context, change backend.Change[T]) (T, error) {
	data, err := EncodeCollection(change.Snapshot)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := c.db.SetRaw(c.key, data); err != nil {
		var zero T
		return zero, errors.NewSystemErrorWithOp(change.Op.String()+" "+c.key, "local storage write failed", err)
	}

	logging.FromContext(ctx).Debug("collection saved",
		logging.KeyStorageKey, c.key,
		logging.KeyOperation, change.Op.String(),
		logging.KeyCount, len(change.Snapshot),
	)
	return change.Item, nil
}

// DecodeCollection parses collection JSON text, dropping null entries.
func DecodeCollection[T model.Entity[T]](data []byte) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	items := make([]T, 0, len(raw))
	for _, entry := range raw {
		if string(bytes.TrimSpace(entry)) == "null" {
			continue
		}
		var item T
		if err := json.Unmarshal(entry, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// EncodeCollection renders a collection as JSON text. A nil collection is
// written as an empty array.
func EncodeCollection[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

// LocalSettings stores scalar preferences next to the collections.
type LocalSettings struct {
	db *DB
}

// NewLocalSettings creates a settings accessor.
func NewLocalSettings(db *DB) *LocalSettings {
	return &LocalSettings{db: db}
}

// DailyGoal returns the stored daily problem goal, or the default when the
// value is absent or unreadable.
func (s *LocalSettings) DailyGoal(ctx context.Context) (int, error) {
	data, ok, err := s.db.GetRaw(model.KeyDailyGoal)
	if err != nil {
		return model.DefaultDailyGoal, errors.NewSystemErrorWithOp("load "+model.KeyDailyGoal, "local storage read failed", err)
	}
	if !ok {
		return model.DefaultDailyGoal, nil
	}

	goal, err := ParseDailyGoal(data)
	if err != nil {
		logging.FromContext(ctx).Warn("ignoring invalid daily goal",
			logging.KeyStorageKey, model.KeyDailyGoal,
			logging.KeyError, err,
		)
		return model.DefaultDailyGoal, nil
	}
	return goal, nil
}

// SetDailyGoal stores a new daily problem goal.
func (s *LocalSettings) SetDailyGoal(goal int) error {
	if goal <= 0 {
		return errors.NewValidationError("dailyGoal", "must be greater than zero")
	}
	return s.db.SetRaw(model.KeyDailyGoal, []byte(strconv.Itoa(goal)))
}

// ParseDailyGoal parses the stored decimal text of a daily goal. A JSON
// number or JSON string holding a number are both accepted.
func ParseDailyGoal(data []byte) (int, error) {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	goal, err := strconv.Atoi(text)
	if err != nil {
		return 0, errors.NewValidationError("dailyGoal", "not a number")
	}
	if goal <= 0 {
		return 0, errors.NewValidationError("dailyGoal", "must be greater than zero")
	}
	return goal, nil
}
