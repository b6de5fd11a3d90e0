package server

import (
	"context"
	"sync"

	"github.com/manav03panchal/jobtrack/internal/model"
)

// Repository stores the records of one kind for every user.
type Repository[T model.Entity[T]] interface {
	// List returns the records owned by owner in creation order.
	List(ctx context.Context, owner string) ([]T, error)
	// Get returns a record and its owner. ok is false when no record has id.
	Get(ctx context.Context, id string) (item T, owner string, ok bool, err error)
	// Create stores a new record for owner.
	Create(ctx context.Context, owner string, item T) (T, error)
	// Save overwrites an existing record.
	Save(ctx context.Context, owner string, item T) (T, error)
	// Delete removes a record.
	Delete(ctx context.Context, id string) error
}

// Repositories groups the repositories the API serves.
type Repositories struct {
	Applications Repository[*model.Application]
	Events       Repository[*model.Event]
	Problems     Repository[*model.Problem]
}

// NewMemoryRepositories returns repositories that keep everything in
// process memory.
func NewMemoryRepositories() Repositories {
	return Repositories{
		Applications: NewMemoryRepository[*model.Application](),
		Events:       NewMemoryRepository[*model.Event](),
		Problems:     NewMemoryRepository[*model.Problem](),
	}
}

type memoryEntry[T any] struct {
	owner string
	item  T
}

// MemoryRepository is a Repository backed by a map.
type MemoryRepository[T model.Entity[T]] struct {
	mu    sync.RWMutex
	order []string
	items map[string]memoryEntry[T]
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository[T model.Entity[T]]() *MemoryRepository[T] {
	return &MemoryRepository[T]{items: make(map[string]memoryEntry[T])}
}

func (r *MemoryRepository[T]) List(ctx context.Context, owner string) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []T{}
	for _, id := range r.order {
		if e := r.items[id]; e.owner == owner {
			out = append(out, e.item.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository[T]) Get(ctx context.Context, id string) (T, string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		var zero T
		return zero, "", false, nil
	}
	return e.item.Clone(), e.owner, true, nil
}

func (r *MemoryRepository[T]) Create(ctx context.Context, owner string, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := item.GetID()
	if _, exists := r.items[id]; !exists {
		r.order = append(r.order, id)
	}
	r.items[id] = memoryEntry[T]{owner: owner, item: item.Clone()}
	return item.Clone(), nil
}

func (r *MemoryRepository[T]) Save(ctx context.Context, owner string, item T) (T, error) {
	return r.Create(ctx, owner, item)
}

func (r *MemoryRepository[T]) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
