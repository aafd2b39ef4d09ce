package repository

import (
	"context"

	"muscledynamics/workout-builder/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrInvalidInput = RepositoryError("invalid input")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Field names usable with ExerciseReader.Distinct.
const (
	FieldEquipment        = "equipment"
	FieldCategory         = "category"
	FieldPrimaryMuscles   = "primaryMuscles"
	FieldSecondaryMuscles = "secondaryMuscles"
)

// ExerciseReader is the read-only query surface over the exercise collection.
type ExerciseReader interface {
	// Find returns matches sorted by name ascending, ties in storage order.
	Find(ctx context.Context, filter domain.ExerciseFilter, skip, limit int64) ([]domain.Exercise, error)
	Count(ctx context.Context, filter domain.ExerciseFilter) (int64, error)
	// GetByID looks an exercise up by storage key or dataset id.
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	// Distinct returns the distinct non-empty string values of field.
	Distinct(ctx context.Context, field string) ([]string, error)
	// Sample draws up to size records at random from the whole collection.
	Sample(ctx context.Context, size int) ([]domain.Exercise, error)
	Ping(ctx context.Context) error
}

// UpsertResult summarises a bulk import.
type UpsertResult struct {
	Inserted int64
	Updated  int64
}

// ExerciseWriter is used by the seeding tool only; the HTTP surface never writes.
type ExerciseWriter interface {
	UpsertMany(ctx context.Context, exercises []domain.Exercise) (UpsertResult, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ExerciseRepository combines both halves.
type ExerciseRepository interface {
	ExerciseReader
	ExerciseWriter
}
