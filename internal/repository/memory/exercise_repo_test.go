package memory

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/repository"
)

func TestFindKeepsInsertionOrderForEqualNames(t *testing.T) {
	repo := NewExerciseRepository(
		domain.Exercise{ID: "b", Name: "Squat"},
		domain.Exercise{ID: "a", Name: "Curl"},
		domain.Exercise{ID: "c", Name: "Squat"},
	)

	got, err := repo.Find(context.Background(), domain.ExerciseFilter{}, 0, 0)
	require.NoError(t, err)
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	got, err = repo.Find(context.Background(), domain.ExerciseFilter{}, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindWindowBounds(t *testing.T) {
	repo := NewExerciseRepository(
		domain.Exercise{ID: "a", Name: "A"},
		domain.Exercise{ID: "b", Name: "B"},
		domain.Exercise{ID: "c", Name: "C"},
	)

	tests := []struct {
		name        string
		skip, limit int64
		want        []string
	}{
		{"first two", 0, 2, []string{"a", "b"}},
		{"tail", 1, 10, []string{"b", "c"}},
		{"huge limit", 1, math.MaxInt64, []string{"b", "c"}},
		{"huge skip", math.MaxInt64, math.MaxInt64, []string{}},
		{"negative skip", -4, 2, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Find(context.Background(), domain.ExerciseFilter{}, tt.skip, tt.limit)
			require.NoError(t, err)
			ids := make([]string, len(got))
			for i, ex := range got {
				ids[i] = ex.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestUpsertManyReplacesByDatasetID(t *testing.T) {
	repo := NewExerciseRepository(domain.Exercise{ID: "Squat", Name: "Squat", Level: "beginner"})
	before, err := repo.GetByID(context.Background(), "Squat")
	require.NoError(t, err)

	res, err := repo.UpsertMany(context.Background(), []domain.Exercise{
		{ID: "Squat", Name: "Squat", Level: "expert"},
		{ID: "Lunge", Name: "Lunge"},
	})
	require.NoError(t, err)
	assert.Equal(t, repository.UpsertResult{Inserted: 1, Updated: 1}, res)

	after, err := repo.GetByID(context.Background(), before.ObjectID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "expert", after.Level)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)

	n, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestSampleIsWithoutReplacement(t *testing.T) {
	repo := NewExerciseRepository(
		domain.Exercise{ID: "1", Name: "A"},
		domain.Exercise{ID: "2", Name: "B"},
		domain.Exercise{ID: "3", Name: "C"},
	)

	got, err := repo.Sample(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.ElementsMatch(t, []string{"1", "2", "3"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestFailWith(t *testing.T) {
	repo := NewExerciseRepository()
	boom := errors.New("store down")
	repo.FailWith(boom)

	assert.ErrorIs(t, repo.Ping(context.Background()), boom)
	_, err := repo.Count(context.Background(), domain.ExerciseFilter{})
	assert.ErrorIs(t, err, boom)

	repo.FailWith(nil)
	assert.NoError(t, repo.Ping(context.Background()))
}
