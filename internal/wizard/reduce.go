package wizard

import (
	"math/rand/v2"
	"slices"

	"muscledynamics/workout-builder/internal/domain"
)

// Action is an input to Reduce.
type Action interface {
	isAction()
}

type (
	// SelectEquipment replaces the equipment selection.
	SelectEquipment struct{ Equipment []string }
	// SelectMuscles replaces the muscle selection.
	SelectMuscles struct{ Muscles []string }
	// Next advances one step if the current step's selection is non-empty.
	Next struct{}
	// Back goes one step back.
	Back struct{}
	// Reset returns to the first step and clears everything.
	Reset struct{}

	// QueryStarted marks query Seq as the one whose answer counts.
	QueryStarted struct{ Seq uint64 }
	// QueryLoaded carries the answer of query Seq.
	QueryLoaded struct {
		Seq       uint64
		Exercises []domain.Exercise
	}
	// QueryFailed reports that query Seq did not produce an answer.
	QueryFailed struct {
		Seq uint64
		Err error
	}

	// Shuffle reorders the local list using Rand; nil uses the global source.
	Shuffle struct{ Rand *rand.Rand }
	// FilterCategory sets the category view.
	FilterCategory struct{ Category string }
	// RemoveExercise drops the exercise with the given key from the local list.
	RemoveExercise struct{ ID string }
	// GenerateWorkout computes the summary of the local list.
	GenerateWorkout struct{}
)

func (SelectEquipment) isAction() {}
func (SelectMuscles) isAction()   {}
func (Next) isAction()            {}
func (Back) isAction()            {}
func (Reset) isAction()           {}
func (QueryStarted) isAction()    {}
func (QueryLoaded) isAction()     {}
func (QueryFailed) isAction()     {}
func (Shuffle) isAction()         {}
func (FilterCategory) isAction()  {}
func (RemoveExercise) isAction()  {}
func (GenerateWorkout) isAction() {}

// Reduce returns the state that follows s after a.
func Reduce(s State, a Action) State {
	s.Notice = ""

	switch a := a.(type) {
	case SelectEquipment:
		s.Equipment = slices.Clone(a.Equipment)

	case SelectMuscles:
		s.Muscles = slices.Clone(a.Muscles)

	case Next:
		switch {
		case s.Step == StepEquipment && len(s.Equipment) == 0:
			s.Notice = NoticeNeedEquipment
		case s.Step == StepMuscles && len(s.Muscles) == 0:
			s.Notice = NoticeNeedMuscles
		case s.Step < StepExercises:
			s.Step++
		}

	case Back:
		if s.Step > StepEquipment {
			s.Step--
		}

	case Reset:
		return Initial()

	case QueryStarted:
		s.Pending = a.Seq
		s.Status = StatusLoading
		s.Err = nil

	case QueryLoaded:
		if a.Seq != s.Pending || s.Status != StatusLoading {
			return s
		}
		s.Exercises = slices.Clone(a.Exercises)
		if s.Exercises == nil {
			s.Exercises = []domain.Exercise{}
		}
		s.Status = StatusLoaded
		s.Fallback = false
		s.Category = CategoryAll
		s.Summary = nil

	case QueryFailed:
		if a.Seq != s.Pending || s.Status != StatusLoading {
			return s
		}
		s.Exercises = FallbackExercises()
		s.Status = StatusFailed
		s.Err = a.Err
		s.Fallback = true
		s.Category = CategoryAll
		s.Summary = nil

	case Shuffle:
		shuffled := slices.Clone(s.Exercises)
		swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
		if a.Rand != nil {
			a.Rand.Shuffle(len(shuffled), swap)
		} else {
			rand.Shuffle(len(shuffled), swap)
		}
		s.Exercises = shuffled

	case FilterCategory:
		s.Category = a.Category
		if s.Category == "" {
			s.Category = CategoryAll
		}

	case RemoveExercise:
		s.Exercises = slices.DeleteFunc(slices.Clone(s.Exercises), func(ex domain.Exercise) bool {
			return ex.Key() == a.ID
		})

	case GenerateWorkout:
		summary := Summarize(len(s.Exercises))
		s.Summary = &summary
	}
	return s
}
