package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/repository/memory"
	"muscledynamics/workout-builder/internal/storage"
)

func catalogue() []domain.Exercise {
	return []domain.Exercise{
		{ID: "Bench_Press", Name: "Bench Press", Equipment: "barbell", Category: "strength",
			PrimaryMuscles: []string{"chest"}, SecondaryMuscles: []string{"shoulders", "triceps"},
			Images: []string{"Bench_Press/0.jpg"}},
		{ID: "Deadlift", Name: "Deadlift", Equipment: "barbell", Category: "strength",
			PrimaryMuscles: []string{"lower back"}, SecondaryMuscles: []string{"hamstrings", "back"}},
		{ID: "Push_Ups", Name: "Push Ups", Equipment: "body only", Category: "strength",
			PrimaryMuscles: []string{"chest"}},
		{ID: "Pull_Ups", Name: "Pull Ups", Equipment: "body only", Category: "strength",
			PrimaryMuscles: []string{"back"}, SecondaryMuscles: []string{"biceps"}},
		{ID: "Chest_Stretch", Name: "Chest Stretch", Equipment: "", Category: "stretching",
			PrimaryMuscles: []string{"chest"}, SecondaryMuscles: []string{""}},
		{ID: "Bicep_Curl", Name: "Bicep Curl", Equipment: "dumbbell", Category: "strength",
			PrimaryMuscles: []string{"biceps"}, SecondaryMuscles: []string{"forearms"}},
	}
}

func newTestService(exercises ...domain.Exercise) (ExerciseService, *memory.ExerciseRepository) {
	repo := memory.NewExerciseRepository(exercises...)
	svc := NewExerciseService(repo, storage.NewConventionResolver("https://img.test"), zap.NewNop())
	return svc, repo
}

func names(exercises []domain.Exercise) []string {
	out := make([]string, len(exercises))
	for i, ex := range exercises {
		out[i] = ex.Name
	}
	return out
}

func TestCoercePagination(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"", "", 1, 50},
		{"3", "20", 3, 20},
		{"abc", "-5", 1, 50},
		{"0", "0", 1, 50},
		{" 2 ", "1.5", 2, 50},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q/%q", tt.page, tt.limit), func(t *testing.T) {
			page, limit := CoercePagination(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestListExercisesFilters(t *testing.T) {
	svc, _ := newTestService(catalogue()...)

	tests := []struct {
		name   string
		filter domain.ExerciseFilter
		want   []string
	}{
		{
			name: "no filter returns all sorted by name",
			want: []string{"Bench Press", "Bicep Curl", "Chest Stretch", "Deadlift", "Pull Ups", "Push Ups"},
		},
		{
			name:   "muscles are a union over primary and secondary",
			filter: domain.ExerciseFilter{Muscles: []string{"chest", "back"}},
			want:   []string{"Bench Press", "Chest Stretch", "Deadlift", "Pull Ups", "Push Ups"},
		},
		{
			name:   "secondary muscle alone is enough",
			filter: domain.ExerciseFilter{Muscles: []string{"forearms"}},
			want:   []string{"Bicep Curl"},
		},
		{
			name:   "dimensions combine with AND",
			filter: domain.ExerciseFilter{Muscles: []string{"chest", "back"}, Equipment: []string{"body only"}},
			want:   []string{"Pull Ups", "Push Ups"},
		},
		{
			name:   "category is case sensitive",
			filter: domain.ExerciseFilter{Category: "Strength"},
			want:   []string{},
		},
		{
			name:   "search ignores case",
			filter: domain.ExerciseFilter{Search: "PU"},
			want:   []string{"Pull Ups", "Push Ups"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListExercises(context.Background(), tt.filter, 1, 50)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(page.Exercises))
			assert.EqualValues(t, len(tt.want), page.Pagination.Total)
		})
	}
}

func TestListExercisesPagination(t *testing.T) {
	var exercises []domain.Exercise
	// Inserted in reverse so ordering comes from the name sort
	for i := 136; i >= 0; i-- {
		exercises = append(exercises, domain.Exercise{
			ID:             fmt.Sprintf("ex-%03d", i),
			Name:           fmt.Sprintf("Exercise %03d", i),
			PrimaryMuscles: []string{"chest"},
		})
	}
	svc, _ := newTestService(exercises...)

	page3, err := svc.ListExercises(context.Background(), domain.ExerciseFilter{}, 3, 50)
	require.NoError(t, err)
	assert.Equal(t, domain.Pagination{Page: 3, Limit: 50, Total: 137, Pages: 3}, page3.Pagination)
	require.Len(t, page3.Exercises, 37)
	assert.Equal(t, "Exercise 100", page3.Exercises[0].Name)
	assert.Equal(t, "Exercise 136", page3.Exercises[36].Name)

	page4, err := svc.ListExercises(context.Background(), domain.ExerciseFilter{}, 4, 50)
	require.NoError(t, err)
	assert.Empty(t, page4.Exercises)
	assert.NotNil(t, page4.Exercises)
	assert.Equal(t, 4, page4.Pagination.Page)
	assert.Equal(t, 3, page4.Pagination.Pages)
}

func TestListExercisesHugeWindow(t *testing.T) {
	svc, _ := newTestService(catalogue()...)

	far, err := svc.ListExercises(context.Background(), domain.ExerciseFilter{}, 3, 1<<62)
	require.NoError(t, err)
	assert.NotNil(t, far.Exercises)
	assert.Empty(t, far.Exercises)
	assert.Equal(t, domain.Pagination{Page: 3, Limit: 1 << 62, Total: 6, Pages: 1}, far.Pagination)

	all, err := svc.ListExercises(context.Background(), domain.ExerciseFilter{}, 1, math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, all.Exercises, 6)
	assert.Equal(t, 1, all.Pagination.Pages)

	last, err := svc.ListExercises(context.Background(), domain.ExerciseFilter{}, math.MaxInt, 2)
	require.NoError(t, err)
	assert.Empty(t, last.Exercises)
	assert.Equal(t, math.MaxInt, last.Pagination.Page)
	assert.Equal(t, 3, last.Pagination.Pages)
}

func TestListExercisesResolvesImages(t *testing.T) {
	svc, _ := newTestService(catalogue()...)

	page, err := svc.ListExercises(context.Background(), domain.ExerciseFilter{Search: "bench"}, 1, 50)
	require.NoError(t, err)
	require.Len(t, page.Exercises, 1)
	assert.Equal(t, []string{"https://img.test/Bench_Press/0.jpg"}, page.Exercises[0].ImageURLs)
}

func TestListExercisesStoreFailure(t *testing.T) {
	svc, repo := newTestService(catalogue()...)
	repo.FailWith(errors.New("connection refused"))

	_, err := svc.ListExercises(context.Background(), domain.ExerciseFilter{}, 1, 50)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrExerciseNotFound)
}

func TestGetExercise(t *testing.T) {
	svc, _ := newTestService(catalogue()...)

	ex, err := svc.GetExercise(context.Background(), "Deadlift")
	require.NoError(t, err)
	assert.Equal(t, "Deadlift", ex.Name)

	byKey, err := svc.GetExercise(context.Background(), ex.ObjectID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Deadlift", byKey.ID)

	for _, id := range []string{"nope", "", "zz-not-hex"} {
		_, err := svc.GetExercise(context.Background(), id)
		assert.ErrorIs(t, err, ErrExerciseNotFound, "id %q", id)
	}
}

func TestVocabularies(t *testing.T) {
	svc, _ := newTestService(catalogue()...)

	equipment, err := svc.EquipmentVocabulary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"barbell", "body only", "dumbbell"}, equipment)

	muscles, err := svc.MuscleVocabulary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"back", "biceps", "chest", "forearms", "hamstrings", "lower back", "shoulders", "triceps"}, muscles)
	assert.IsNonDecreasing(t, muscles)
}

func TestRandomExercises(t *testing.T) {
	var exercises []domain.Exercise
	for i := 0; i < 25; i++ {
		exercises = append(exercises, domain.Exercise{ID: fmt.Sprintf("ex-%d", i), Name: fmt.Sprintf("Exercise %d", i)})
	}
	svc, _ := newTestService(exercises...)

	got, err := svc.RandomExercises(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 10)
	seen := map[string]bool{}
	for _, ex := range got {
		assert.False(t, seen[ex.ID], "duplicate %s", ex.ID)
		seen[ex.ID] = true
	}

	got, err = svc.RandomExercises(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultSampleSize)

	var large []domain.Exercise
	for i := 0; i < 200; i++ {
		large = append(large, domain.Exercise{ID: fmt.Sprintf("big-%d", i), Name: fmt.Sprintf("Big %d", i)})
	}
	big, _ := newTestService(large...)
	got, err = big.RandomExercises(context.Background(), 150)
	require.NoError(t, err)
	assert.Len(t, got, 150)

	small, _ := newTestService(catalogue()...)
	got, err = small.RandomExercises(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, got, len(catalogue()))
}

func TestHealth(t *testing.T) {
	svc, repo := newTestService()
	assert.NoError(t, svc.Health(context.Background()))

	repo.FailWith(errors.New("no primary"))
	assert.ErrorIs(t, svc.Health(context.Background()), ErrStoreUnavailable)
}
