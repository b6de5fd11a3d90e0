package model

import (
	"strings"

	"github.com/manav03panchal/jobtrack/internal/errors"
)

// Step is a stage of an interview process shown on the calendar.
type Step string

const (
	StepApplicationSubmitted Step = "Application Submitted"
	StepOnlineAssessment     Step = "Online Assessment"
	StepPhoneScreen          Step = "Phone Screen"
	StepInterviewRound1      Step = "Interview Round 1"
	StepInterviewRound2      Step = "Interview Round 2"
	StepFinalRound           Step = "Final Round"
	StepWaitingForDecision   Step = "Waiting for Decision"
	StepOfferReceived        Step = "Offer Received"
	StepRejected             Step = "Rejected"
)

// Steps lists the process steps in order.
var Steps = []Step{
	StepApplicationSubmitted,
	StepOnlineAssessment,
	StepPhoneScreen,
	StepInterviewRound1,
	StepInterviewRound2,
	StepFinalRound,
	StepWaitingForDecision,
	StepOfferReceived,
	StepRejected,
}

// ParseStep parses a step name case-insensitively.
func ParseStep(s string) (Step, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, st := range Steps {
		if strings.ToLower(string(st)) == key {
			return st, nil
		}
	}
	return "", errors.NewValidationError("step", "unknown step '"+s+"'")
}

// Index returns the position of the step in the process, or -1.
func (s Step) Index() int {
	for i, st := range Steps {
		if st == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is a known step.
func (s Step) IsValid() bool {
	return s.Index() >= 0
}
