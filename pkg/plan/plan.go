// Package plan defines the workout plan model and the request/response call
// that produces one from the remote content-generation service.
package plan

import (
	"fmt"
	"strings"

	"github.com/formsense/formsense/pkg/coach"
)

// Exercise is one step of a workout plan.
type Exercise struct {
	Name           string `json:"name"`
	DurationOrReps string `json:"durationOrReps"`
	Description    string `json:"description"`
	Tips           string `json:"tips"`
}

// WorkoutPlan is an ordered exercise sequence. Immutable once produced; the
// session orchestrator owns it for the session's lifetime.
type WorkoutPlan struct {
	Title      string     `json:"title"`
	Duration   string     `json:"duration"`
	Difficulty string     `json:"difficulty"`
	Exercises  []Exercise `json:"exercises"`
}

// Validate checks the fixed required-field schema. A plan that fails here is
// a malformed remote response; the caller surfaces a retry prompt.
func (p *WorkoutPlan) Validate() error {
	if p == nil {
		return coach.NewValidationError("plan payload is empty")
	}
	if strings.TrimSpace(p.Title) == "" {
		return coach.NewValidationError("plan is missing a title")
	}
	if strings.TrimSpace(p.Duration) == "" {
		return coach.NewValidationError("plan is missing a duration")
	}
	if strings.TrimSpace(p.Difficulty) == "" {
		return coach.NewValidationError("plan is missing a difficulty")
	}
	if len(p.Exercises) == 0 {
		return coach.NewValidationError("plan has no exercises")
	}
	for i, ex := range p.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return coach.NewValidationError(fmt.Sprintf("exercise %d is missing a name", i))
		}
		if strings.TrimSpace(ex.DurationOrReps) == "" {
			return coach.NewValidationError(fmt.Sprintf("exercise %q is missing duration or reps", ex.Name))
		}
		if strings.TrimSpace(ex.Description) == "" {
			return coach.NewValidationError(fmt.Sprintf("exercise %q is missing a description", ex.Name))
		}
		if strings.TrimSpace(ex.Tips) == "" {
			return coach.NewValidationError(fmt.Sprintf("exercise %q is missing tips", ex.Name))
		}
	}
	return nil
}

// ExperienceLevel is the user's self-reported training experience.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// ValidExperienceLevel reports whether s is a declared level.
func ValidExperienceLevel(s string) bool {
	switch ExperienceLevel(s) {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

// Request describes the plan the user wants.
type Request struct {
	Goal            string          `json:"goal"`
	Experience      ExperienceLevel `json:"experience"`
	DurationMinutes int             `json:"duration_minutes"`
}

// Validate checks request fields before any network attempt.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Goal) == "" {
		return coach.NewValidationError("workout goal must not be empty")
	}
	if !ValidExperienceLevel(string(r.Experience)) {
		return coach.NewValidationError(fmt.Sprintf("unknown experience level %q", r.Experience))
	}
	if r.DurationMinutes <= 0 {
		return coach.NewValidationError("workout duration must be positive")
	}
	return nil
}
