package model

import (
	"strings"

	"github.com/manav03panchal/jobtrack/internal/errors"
)

// Difficulty is the LeetCode difficulty of a problem.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists the difficulties from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty parses a difficulty case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Difficulties {
		if strings.ToLower(string(d)) == key {
			return d, nil
		}
	}
	return "", errors.NewValidationError("difficulty", "must be Easy, Medium or Hard")
}

// UnmarshalText decodes a difficulty. Empty means Medium.
func (d *Difficulty) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = DifficultyMedium
		return nil
	}
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsValid reports whether d is a known difficulty.
func (d Difficulty) IsValid() bool {
	for _, known := range Difficulties {
		if known == d {
			return true
		}
	}
	return false
}
