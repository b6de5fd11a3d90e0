// Package model defines the domain models for JobTrack.
package model

import "github.com/google/uuid"

// Entity is the interface that every stored record implements.
// T is the pointer type of the record itself.
type Entity[T any] interface {
	// GetID returns the record id.
	GetID() string
	// SetID sets the record id.
	SetID(id string)
	// Validate checks the record's invariants.
	Validate() error
	// Clone returns a deep copy of the record.
	Clone() T
}

// Patch is a partial update of a record.
type Patch[T any] interface {
	// Apply writes the set fields of the patch into the record.
	Apply(T)
}

// Local storage keys, one per collection.
const (
	KeyApplications = "company-applications"
	KeyEvents       = "calendar-events"
	KeyProblems     = "leetcode-problems"
	KeyDailyGoal    = "leetcode-daily-goal"
)

// Keys lists every local storage key in export order.
var Keys = []string{KeyApplications, KeyEvents, KeyProblems, KeyDailyGoal}

// DefaultDailyGoal is the number of problems per day when none is stored.
const DefaultDailyGoal = 3

// NewID returns a fresh record id.
// Ids are random UUIDs, so rapid successive adds never collide.
func NewID() string {
	return uuid.NewString()
}

// Remote API resource paths, one per collection.
const (
	PathApplications = "/applications"
	PathEvents       = "/events"
	PathProblems     = "/problems"
)
