package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/api"
	"muscledynamics/workout-builder/internal/config"
	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/repository/memory"
	"muscledynamics/workout-builder/internal/service"
	"muscledynamics/workout-builder/internal/storage"
)

func newAPIServer(t *testing.T) (*httptest.Server, *memory.ExerciseRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := memory.NewExerciseRepository(
		domain.Exercise{ID: "Barbell_Squat", Name: "Barbell Squat", Equipment: "barbell", Category: "strength",
			PrimaryMuscles: []string{"quadriceps"}, SecondaryMuscles: []string{"glutes", "hamstrings"},
			Images: []string{"Barbell_Squat/0.jpg"}},
		domain.Exercise{ID: "Barbell_Curl", Name: "Barbell Curl", Equipment: "barbell", Category: "strength",
			PrimaryMuscles: []string{"biceps"}},
		domain.Exercise{ID: "Bodyweight_Squat", Name: "Bodyweight Squat", Equipment: "body only", Category: "strength",
			PrimaryMuscles: []string{"quadriceps"}},
	)
	svc := service.NewExerciseService(repo, storage.NewConventionResolver("https://img.test"), zap.NewNop())
	srv := httptest.NewServer(api.NewRouter(config.ServerConfig{}, zap.NewNop(), svc))
	t.Cleanup(srv.Close)
	return srv, repo
}

func TestListExercises(t *testing.T) {
	srv, _ := newAPIServer(t)
	c := New(srv.URL + "/")

	page, err := c.ListExercises(context.Background(), domain.ExerciseFilter{
		Muscles:   []string{"glutes", "biceps"},
		Equipment: []string{"barbell"},
	}, 1, 50)
	require.NoError(t, err)

	require.Len(t, page.Exercises, 2)
	assert.Equal(t, "Barbell Curl", page.Exercises[0].Name)
	assert.Equal(t, "Barbell Squat", page.Exercises[1].Name)
	assert.False(t, page.Exercises[1].ObjectID.IsZero())
	assert.Equal(t, []string{"https://img.test/Barbell_Squat/0.jpg"}, page.Exercises[1].ImageURLs)
	assert.Equal(t, domain.Pagination{Page: 1, Limit: 50, Total: 2, Pages: 1}, page.Pagination)
}

func TestListExercisesOmitsEmptyDimensions(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"exercises":null,"pagination":{"page":1,"limit":50,"total":0,"pages":0}}`))
	}))
	defer srv.Close()

	page, err := New(srv.URL).ListExercises(context.Background(), domain.ExerciseFilter{Muscles: []string{"chest", "lats"}}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "muscles=chest%2Clats", rawQuery)
	assert.NotNil(t, page.Exercises)
}

func TestGetExercise(t *testing.T) {
	srv, _ := newAPIServer(t)
	c := New(srv.URL)

	ex, err := c.GetExercise(context.Background(), "Barbell_Curl")
	require.NoError(t, err)
	assert.Equal(t, "Barbell Curl", ex.Name)

	_, err = c.GetExercise(context.Background(), "Nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Exercise not found", apiErr.Message)
}

func TestServerFaultIsNotNotFound(t *testing.T) {
	srv, repo := newAPIServer(t)
	repo.FailWith(errors.New("store offline"))

	_, err := New(srv.URL).ListExercises(context.Background(), domain.ExerciseFilter{}, 1, 50)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "store offline")
	assert.False(t, IsNotFound(err))
}

func TestVocabulariesAndRandom(t *testing.T) {
	srv, _ := newAPIServer(t)
	c := New(srv.URL)

	equipment, err := c.Equipment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"barbell", "body only"}, equipment)

	muscles, err := c.Muscles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"biceps", "glutes", "hamstrings", "quadriceps"}, muscles)

	random, err := c.Random(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, random, 2)
}

func TestBackoff(t *testing.T) {
	p := HealthPolicy{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second}

	assert.Equal(t, 100*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 200*time.Millisecond, p.Backoff(2))
	assert.Equal(t, 800*time.Millisecond, p.Backoff(4))
	assert.Equal(t, time.Second, p.Backoff(5))
	assert.Equal(t, time.Second, p.Backoff(50))
}

func TestWaitReadyRetriesUntilHealthy(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var failures []int
	err := New(srv.URL).WaitReady(context.Background(), HealthPolicy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxAttempts:     5,
	}, func(attempt int, err error) { failures = append(failures, attempt) })

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, failures)
	assert.EqualValues(t, 3, calls.Load())
}

func TestWaitReadyGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := New(srv.URL).WaitReady(context.Background(), HealthPolicy{
		InitialInterval: time.Millisecond,
		MaxAttempts:     3,
	}, nil)

	assert.ErrorIs(t, err, ErrNotReady)
	assert.EqualValues(t, 3, calls.Load())
}

func TestWaitReadyHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	err := New(srv.URL).WaitReady(ctx, HealthPolicy{
		InitialInterval: time.Hour,
		MaxAttempts:     100,
	}, func(int, error) { cancel() })

	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, err, context.Canceled)
}
