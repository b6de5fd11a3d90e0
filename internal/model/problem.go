package model

import (
	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/validate"
)

// Problem is a LeetCode practice problem.
type Problem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Difficulty Difficulty `json:"difficulty"`
	Completed  bool       `json:"completed"`
	URL        string     `json:"url,omitempty"`
}

// NewProblem creates an uncompleted problem.
func NewProblem(name string, difficulty Difficulty, url string) *Problem {
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	return &Problem{
		Name:       validate.SanitizeName(name),
		Difficulty: difficulty,
		URL:        url,
	}
}

// GetID returns the problem id.
func (p *Problem) GetID() string {
	return p.ID
}

// SetID sets the problem id.
func (p *Problem) SetID(id string) {
	p.ID = id
}

// Validate checks that the problem has a name and a known difficulty.
func (p *Problem) Validate() error {
	if err := validate.Name("name", p.Name); err != nil {
		return err
	}
	if !p.Difficulty.IsValid() {
		return errors.NewValidationError("difficulty", "must be Easy, Medium or Hard")
	}
	return validate.Link("url", p.URL)
}

// Clone returns a copy of the problem.
func (p *Problem) Clone() *Problem {
	c := *p
	return &c
}

// ProblemPatch is a partial update of a problem.
type ProblemPatch struct {
	Name       *string     `json:"name,omitempty"`
	Difficulty *Difficulty `json:"difficulty,omitempty"`
	Completed  *bool       `json:"completed,omitempty"`
	URL        *string     `json:"url,omitempty"`
}

// Apply writes the set fields into p.
func (pp ProblemPatch) Apply(p *Problem) {
	if pp.Name != nil {
		p.Name = validate.SanitizeName(*pp.Name)
	}
	if pp.Difficulty != nil {
		p.Difficulty = *pp.Difficulty
	}
	if pp.Completed != nil {
		p.Completed = *pp.Completed
	}
	if pp.URL != nil {
		p.URL = *pp.URL
	}
}
