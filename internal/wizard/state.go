// Package wizard holds the workout builder's selection flow: equipment, then
// muscles, then the resulting exercise list. State is an immutable value and
// every transition goes through Reduce.
package wizard

import (
	"slices"
	"strings"

	"muscledynamics/workout-builder/internal/domain"
)

// Step is the current page of the flow.
type Step int

const (
	StepEquipment Step = iota
	StepMuscles
	StepExercises
)

func (s Step) String() string {
	switch s {
	case StepEquipment:
		return "Equipment"
	case StepMuscles:
		return "Muscles"
	case StepExercises:
		return "Exercises"
	default:
		return "Unknown"
	}
}

// Status tracks the exercise query owned by the state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

// CategoryAll disables the local category view.
const CategoryAll = "all"

// Notices shown when Next is refused.
const (
	NoticeNeedEquipment = "Please select at least one equipment type."
	NoticeNeedMuscles   = "Please select at least one muscle group."
)

// State is a snapshot of the flow. Reduce never mutates a State it is given;
// callers must treat the slices as read-only too.
type State struct {
	Step      Step
	Equipment []string
	Muscles   []string

	// Exercises is the local result list. Shuffle and RemoveExercise edit it,
	// the store is never touched.
	Exercises []domain.Exercise
	Status    Status
	Err       error
	// Fallback is set when Exercises holds the built-in list after a failed query.
	Fallback bool

	// Pending is the sequence number of the query whose answer will be
	// applied. Answers carrying any other number are stale.
	Pending uint64

	// Category narrows the visible list without refetching.
	Category string
	Summary  *Summary
	Notice   string
}

// Initial returns the state at the start of the flow.
func Initial() State {
	return State{Step: StepEquipment, Category: CategoryAll}
}

// Ready reports whether both selections are non-empty.
func (s State) Ready() bool {
	return len(s.Equipment) > 0 && len(s.Muscles) > 0
}

// Filter is the query the current selections map to.
func (s State) Filter() domain.ExerciseFilter {
	return domain.ExerciseFilter{
		Muscles:   slices.Clone(s.Muscles),
		Equipment: slices.Clone(s.Equipment),
	}
}

// Visible returns the exercises matching the category view. Matching is
// case-insensitive; "all" or "" shows everything.
func (s State) Visible() []domain.Exercise {
	if s.Category == "" || strings.EqualFold(s.Category, CategoryAll) {
		return s.Exercises
	}
	out := make([]domain.Exercise, 0, len(s.Exercises))
	for _, ex := range s.Exercises {
		if strings.EqualFold(ex.Category, s.Category) {
			out = append(out, ex)
		}
	}
	return out
}

// Categories lists "all" followed by the distinct non-empty categories of the
// result list in order of first appearance.
func (s State) Categories() []string {
	out := []string{CategoryAll}
	for _, ex := range s.Exercises {
		if ex.Category != "" && !slices.Contains(out, ex.Category) {
			out = append(out, ex.Category)
		}
	}
	return out
}

// NeedsQuery reports whether moving from prev to next calls for a fresh
// exercise query: both selections are non-empty and at least one changed.
func NeedsQuery(prev, next State) bool {
	if !next.Ready() {
		return false
	}
	return !slices.Equal(prev.Equipment, next.Equipment) || !slices.Equal(prev.Muscles, next.Muscles)
}

// Toggle returns a copy of list with v added, or removed if already present.
func Toggle(list []string, v string) []string {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(slices.Clone(list), v)
}
