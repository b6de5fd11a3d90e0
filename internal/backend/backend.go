// Package backend defines the persistence contract shared by the local
// key/value store and the remote JobTrack API.
package backend

import (
	"context"
	"errors"
)

// Op is the kind of mutation carried by a Change.
type Op int

const (
	OpAdd Op = iota + 1
	OpUpdate
	OpRemove
)

// String returns the lower-case name of the operation.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Change describes one committed mutation of a collection.
// Backends that persist whole collections use Snapshot; backends that
// persist single records use Op, ID, Item and Patch.
type Change[T any] struct {
	Op Op
	ID string
	// Item is the record after the change. Zero for OpRemove.
	Item T
	// Patch is the partial update that produced Item. Only set for OpUpdate.
	Patch any
	// Snapshot is the full collection after the change.
	Snapshot []T
}

// Backend persists one collection of records of type T.
// Implementations never mutate the records they are given.
type Backend[T any] interface {
	// Name identifies the backend in logs.
	Name() string
	// Load returns the stored collection.
	Load(ctx context.Context) ([]T, error)
	// Apply persists a change and returns the record as stored.
	Apply(ctx context.Context, change Change[T]) (T, error)
}

// ErrUnknownOp is returned by backends for a Change with an invalid Op.
var ErrUnknownOp = errors.New("unknown change operation")
