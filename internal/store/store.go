// Package store holds the authoritative in-memory collections of JobTrack.
//
// Every mutation is validated, written through to the collection's backend,
// and committed to memory only after the backend succeeds. A failed write
// leaves memory exactly as it was.
package store

import (
	"context"
	"sync"

	"github.com/manav03panchal/jobtrack/internal/backend"
	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/model"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	newID func() string
}

// WithIDFunc replaces the id generator. Used by tests.
func WithIDFunc(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// Store is an ordered collection of records of type T.
type Store[T model.Entity[T]] struct {
	mu      sync.Mutex
	kind    string
	items   []T
	backend backend.Backend[T]
	newID   func() string
}

// New creates an empty store persisting through b. kind names the record
// type in logs and errors.
func New[T model.Entity[T]](kind string, b backend.Backend[T], opts ...Option) *Store[T] {
	o := options{newID: model.NewID}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		kind:    kind,
		items:   []T{},
		backend: b,
		newID:   o.newID,
	}
}

// Kind returns the record type name.
func (s *Store[T]) Kind() string {
	return s.kind
}

// Backend returns the backend the store writes through.
func (s *Store[T]) Backend() backend.Backend[T] {
	return s.backend
}

// Hydrate replaces the contents of the store with the backend's collection.
// Corrupted local data degrades to an empty collection; any other load
// failure leaves the store unchanged.
func (s *Store[T]) Hydrate(ctx context.Context) error {
	items, err := s.backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, errors.ErrStorageCorrupted) {
			return err
		}
		logging.FromContext(ctx).Warn("starting with an empty collection",
			logging.KeyKind, s.kind,
			logging.KeyBackend, s.backend.Name(),
			logging.KeyError, err,
		)
		items = nil
	}

	s.Replace(items)
	logging.FromContext(ctx).Debug("store hydrated",
		logging.KeyKind, s.kind,
		logging.KeyBackend, s.backend.Name(),
		logging.KeyCount, len(items),
	)
	return nil
}

// Replace swaps the whole collection without writing to the backend.
func (s *Store[T]) Replace(items []T) {
	next := make([]T, 0, len(items))
	for _, item := range items {
		next = append(next, item.Clone())
	}

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
}

// List returns copies of all records in insertion order.
func (s *Store[T]) List() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.items))
	for i, item := range s.items {
		out[i] = item.Clone()
	}
	return out
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns a copy of the record with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i].Clone(), true
	}
	var zero T
	return zero, false
}

// Add validates item, assigns it a fresh id and persists it.
// The returned id is the one the backend stored the record under.
func (s *Store[T]) Add(ctx context.Context, item T) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := item.Clone()
	id := s.newID()
	for s.indexOf(id) >= 0 {
		id = s.newID()
	}
	rec.SetID(id)
	if err := rec.Validate(); err != nil {
		return "", err
	}

	snapshot := make([]T, len(s.items), len(s.items)+1)
	copy(snapshot, s.items)
	snapshot = append(snapshot, rec)

	stored, err := s.backend.Apply(ctx, backend.Change[T]{
		Op:       backend.OpAdd,
		ID:       id,
		Item:     rec,
		Snapshot: snapshot,
	})
	if err != nil {
		s.logFailure(ctx, backend.OpAdd, id, err)
		return "", err
	}

	s.items = append(s.items, stored.Clone())
	return stored.GetID(), nil
}

// Update applies patch to the record with the given id and persists it.
// ok is false, with no backend call, when there is no such record.
func (s *Store[T]) Update(ctx context.Context, id string, patch model.Patch[T]) (updated T, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		logging.FromContext(ctx).Debug("update of unknown record ignored",
			logging.KeyKind, s.kind,
			logging.KeyEntityID, id,
		)
		return updated, false, nil
	}

	rec := s.items[i].Clone()
	patch.Apply(rec)
	rec.SetID(id)
	if err := rec.Validate(); err != nil {
		return updated, true, err
	}

	snapshot := make([]T, len(s.items))
	copy(snapshot, s.items)
	snapshot[i] = rec

	stored, err := s.backend.Apply(ctx, backend.Change[T]{
		Op:       backend.OpUpdate,
		ID:       id,
		Item:     rec,
		Patch:    patch,
		Snapshot: snapshot,
	})
	if err != nil {
		s.logFailure(ctx, backend.OpUpdate, id, err)
		return updated, true, err
	}

	s.items[i] = stored.Clone()
	return stored.Clone(), true, nil
}

// Remove deletes the record with the given id.
// It returns false, with no backend call, when there is no such record.
func (s *Store[T]) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	snapshot := make([]T, 0, len(s.items)-1)
	snapshot = append(snapshot, s.items[:i]...)
	snapshot = append(snapshot, s.items[i+1:]...)

	if _, err := s.backend.Apply(ctx, backend.Change[T]{
		Op:       backend.OpRemove,
		ID:       id,
		Snapshot: snapshot,
	}); err != nil {
		s.logFailure(ctx, backend.OpRemove, id, err)
		return true, err
	}

	s.items = snapshot
	return true, nil
}

// indexOf must be called with mu held.
func (s *Store[T]) indexOf(id string) int {
	for i, item := range s.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) logFailure(ctx context.Context, op backend.Op, id string, err error) {
	logging.FromContext(ctx).Warn("write-through failed",
		logging.KeyKind, s.kind,
		logging.KeyOperation, op.String(),
		logging.KeyEntityID, id,
		logging.KeyBackend, s.backend.Name(),
		logging.KeyError, err,
	)
}
