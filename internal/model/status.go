package model

import (
	"strings"

	"github.com/manav03panchal/jobtrack/internal/errors"
)

// Status is the state of a job application.
type Status string

const (
	StatusApplied          Status = "Applied"
	StatusOnlineAssessment Status = "Online Assessment"
	StatusPhoneScreen      Status = "Phone Screen"
	StatusInterviewing     Status = "Interviewing"
	StatusFinalRound       Status = "Final Round"
	StatusOfferReceived    Status = "Offer Received"
	StatusAccepted         Status = "Accepted"
	StatusRejected         Status = "Rejected"
	StatusWithdrawn        Status = "Withdrawn"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusApplied,
	StatusOnlineAssessment,
	StatusPhoneScreen,
	StatusInterviewing,
	StatusFinalRound,
	StatusOfferReceived,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
}

// legacyStatuses maps values written by older releases onto the current enum.
var legacyStatuses = map[string]Status{
	"interview": StatusInterviewing,
	"offer":     StatusOfferReceived,
}

// ParseStatus parses a status name case-insensitively, migrating legacy values.
func ParseStatus(s string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if strings.ToLower(string(st)) == key {
			return st, nil
		}
	}
	if st, ok := legacyStatuses[key]; ok {
		return st, nil
	}
	return "", errors.NewValidationError("status", "unknown status '"+s+"'")
}

// UnmarshalText decodes and migrates a stored status. Empty means Applied.
func (s *Status) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = StatusApplied
		return nil
	}
	st, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// IsValid reports whether s is a member of the enum.
func (s Status) IsValid() bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

// IsInterviewing reports whether the application is in an interview stage.
func (s Status) IsInterviewing() bool {
	return s == StatusPhoneScreen || s == StatusInterviewing || s == StatusFinalRound
}

// IsOffer reports whether the application produced an offer.
func (s Status) IsOffer() bool {
	return s == StatusOfferReceived || s == StatusAccepted
}

// IsClosed reports whether the application has reached a terminal state.
func (s Status) IsClosed() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}
