// Package memory is an in-process exercise store with the same query rules
// as the Mongo repository. It backs the server's memory:// mode and tests.
package memory

import (
	"context"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/repository"
)

// ExerciseRepository keeps exercises in insertion order.
type ExerciseRepository struct {
	mu        sync.RWMutex
	exercises []domain.Exercise
	err       error
}

var _ repository.ExerciseRepository = (*ExerciseRepository)(nil)

// NewExerciseRepository returns a store holding a copy of exercises.
func NewExerciseRepository(exercises ...domain.Exercise) *ExerciseRepository {
	r := &ExerciseRepository{}
	for _, ex := range exercises {
		r.insert(ex, time.Now().UTC())
	}
	return r
}

// FailWith makes every subsequent call return err; nil restores normal operation.
func (r *ExerciseRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *ExerciseRepository) insert(ex domain.Exercise, now time.Time) {
	if ex.ObjectID.IsZero() {
		ex.ObjectID = primitive.NewObjectID()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = now
	}
	ex.UpdatedAt = now
	r.exercises = append(r.exercises, ex)
}

// sorted returns the matches ordered by name; the stable sort keeps
// insertion order between equal names.
func (r *ExerciseRepository) sorted(filter domain.ExerciseFilter) []domain.Exercise {
	var out []domain.Exercise
	for _, ex := range r.exercises {
		if filter.Matches(ex) {
			out = append(out, ex)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *ExerciseRepository) Find(_ context.Context, filter domain.ExerciseFilter, skip, limit int64) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}

	matches := r.sorted(filter)
	if skip < 0 || skip >= int64(len(matches)) {
		return []domain.Exercise{}, nil
	}
	end := int64(len(matches))
	if limit > 0 && limit < end-skip {
		end = skip + limit
	}
	return slices.Clone(matches[skip:end]), nil
}

func (r *ExerciseRepository) Count(_ context.Context, filter domain.ExerciseFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return 0, r.err
	}

	var n int64
	for _, ex := range r.exercises {
		if filter.Matches(ex) {
			n++
		}
	}
	return n, nil
}

func (r *ExerciseRepository) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	if id == "" {
		return nil, repository.ErrNotFound
	}

	for _, ex := range r.exercises {
		if ex.ID == id || ex.ObjectID.Hex() == id {
			found := ex
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ExerciseRepository) Distinct(_ context.Context, field string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}

	var values []string
	for _, ex := range r.exercises {
		switch field {
		case repository.FieldEquipment:
			values = append(values, ex.Equipment)
		case repository.FieldCategory:
			values = append(values, ex.Category)
		case repository.FieldPrimaryMuscles:
			values = append(values, ex.PrimaryMuscles...)
		case repository.FieldSecondaryMuscles:
			values = append(values, ex.SecondaryMuscles...)
		}
	}
	values = slices.DeleteFunc(values, func(s string) bool { return s == "" })
	sort.Strings(values)
	return slices.Compact(values), nil
}

// Sample draws without replacement.
func (r *ExerciseRepository) Sample(_ context.Context, size int) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}

	size = min(size, len(r.exercises))
	out := make([]domain.Exercise, 0, max(size, 0))
	for _, i := range rand.Perm(len(r.exercises))[:max(size, 0)] {
		out = append(out, r.exercises[i])
	}
	return out, nil
}

func (r *ExerciseRepository) Ping(context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// UpsertMany replaces records with a matching dataset id and appends the rest.
func (r *ExerciseRepository) UpsertMany(_ context.Context, exercises []domain.Exercise) (repository.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return repository.UpsertResult{}, r.err
	}

	var res repository.UpsertResult
	now := time.Now().UTC()
	for _, ex := range exercises {
		if ex.ID == "" || strings.TrimSpace(ex.Name) == "" {
			return res, repository.ErrInvalidInput
		}
		idx := slices.IndexFunc(r.exercises, func(e domain.Exercise) bool { return e.ID == ex.ID })
		if idx < 0 {
			r.insert(ex, now)
			res.Inserted++
			continue
		}
		ex.ObjectID = r.exercises[idx].ObjectID
		ex.CreatedAt = r.exercises[idx].CreatedAt
		ex.UpdatedAt = now
		r.exercises[idx] = ex
		res.Updated++
	}
	return res, nil
}

func (r *ExerciseRepository) DeleteAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	n := int64(len(r.exercises))
	r.exercises = nil
	return n, nil
}
