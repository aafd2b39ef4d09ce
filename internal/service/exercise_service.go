package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/repository"
	"muscledynamics/workout-builder/internal/storage"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrStoreUnavailable = errors.New("exercise store unavailable")
)

// Random sample bounds.
const (
	DefaultSampleSize = 10
	// sampleRounds caps the re-draws used to fill a sample after de-duplication.
	sampleRounds = 3
	// samplePrealloc bounds up-front allocation; count itself is unbounded.
	samplePrealloc = 256
)

// ExerciseService resolves exercise queries against the store. It is
// read-only.
type ExerciseService interface {
	ListExercises(ctx context.Context, filter domain.ExerciseFilter, page, limit int) (*domain.ExercisePage, error)
	GetExercise(ctx context.Context, id string) (*domain.Exercise, error)
	EquipmentVocabulary(ctx context.Context) ([]string, error)
	MuscleVocabulary(ctx context.Context) ([]string, error)
	RandomExercises(ctx context.Context, count int) ([]domain.Exercise, error)
	Health(ctx context.Context) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseReader
	images       storage.ImageResolver
	logger       *zap.Logger
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseReader, images storage.ImageResolver, logger *zap.Logger) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		images:       images,
		logger:       logger,
	}
}

// CoercePagination parses raw page/limit values. Anything that is not a
// positive integer falls back to the default instead of failing the request.
func CoercePagination(rawPage, rawLimit string) (page, limit int) {
	return coercePositive(rawPage, domain.DefaultPage), coercePositive(rawLimit, domain.DefaultPageLimit)
}

func coercePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// ListExercises returns the name-sorted page [(page-1)*limit, page*limit) of
// the matches plus the pre-pagination total. A page past the end is empty
// and keeps the requested page number.
func (s *exerciseService) ListExercises(ctx context.Context, filter domain.ExerciseFilter, page, limit int) (*domain.ExercisePage, error) {
	if page < 1 {
		page = domain.DefaultPage
	}
	if limit < 1 {
		limit = domain.DefaultPageLimit
	}
	window := domain.Pagination{Page: page, Limit: limit}

	var (
		exercises []domain.Exercise
		total     int64
	)
	g, gctx := errgroup.WithContext(ctx)
	if !window.Overflows() {
		g.Go(func() error {
			var err error
			exercises, err = s.exerciseRepo.Find(gctx, filter, window.Skip(), int64(limit))
			return err
		})
	}
	g.Go(func() error {
		var err error
		total, err = s.exerciseRepo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	s.resolveImages(ctx, exercises)

	s.logger.Debug("Exercises listed",
		zap.Strings("muscles", filter.Muscles),
		zap.Strings("equipment", filter.Equipment),
		zap.String("category", filter.Category),
		zap.String("search", filter.Search),
		zap.Int("page", page),
		zap.Int("limit", limit),
		zap.Int64("total", total))

	return &domain.ExercisePage{
		Exercises:  exercises,
		Pagination: domain.NewPagination(page, limit, total),
	}, nil
}

// GetExercise looks up one exercise. Unknown and malformed identifiers are
// both ErrExerciseNotFound.
func (s *exerciseService) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("get exercise %q: %w", id, err)
	}
	exercise.ImageURLs = s.images.ResolveImageURLs(ctx, exercise.Images)
	return exercise, nil
}

// EquipmentVocabulary returns the distinct non-empty equipment values.
func (s *exerciseService) EquipmentVocabulary(ctx context.Context) ([]string, error) {
	values, err := s.exerciseRepo.Distinct(ctx, repository.FieldEquipment)
	if err != nil {
		return nil, fmt.Errorf("equipment vocabulary: %w", err)
	}
	return cleanVocabulary(values), nil
}

// MuscleVocabulary returns the sorted union of primary and secondary muscles.
func (s *exerciseService) MuscleVocabulary(ctx context.Context) ([]string, error) {
	var primary, secondary []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		primary, err = s.exerciseRepo.Distinct(gctx, repository.FieldPrimaryMuscles)
		return err
	})
	g.Go(func() error {
		var err error
		secondary, err = s.exerciseRepo.Distinct(gctx, repository.FieldSecondaryMuscles)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("muscle vocabulary: %w", err)
	}
	return cleanVocabulary(append(primary, secondary...)), nil
}

// cleanVocabulary drops empty values and duplicates and sorts the rest.
func cleanVocabulary(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// RandomExercises samples count records uniformly from the whole collection,
// ignoring every filter dimension. The result holds no duplicates; it is
// shorter than count only when the collection is.
func (s *exerciseService) RandomExercises(ctx context.Context, count int) ([]domain.Exercise, error) {
	if count < 1 {
		count = DefaultSampleSize
	}

	picked := make([]domain.Exercise, 0, min(count, samplePrealloc))
	seen := make(map[string]struct{}, min(count, samplePrealloc))
	for round := 0; round < sampleRounds && len(picked) < count; round++ {
		batch, err := s.exerciseRepo.Sample(ctx, count-len(picked))
		if err != nil {
			return nil, fmt.Errorf("random exercises: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		for _, ex := range batch {
			key := ex.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			picked = append(picked, ex)
		}
	}

	s.resolveImages(ctx, picked)
	return picked, nil
}

// Health reports whether the store answers.
func (s *exerciseService) Health(ctx context.Context) error {
	if err := s.exerciseRepo.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *exerciseService) resolveImages(ctx context.Context, exercises []domain.Exercise) {
	for i := range exercises {
		exercises[i].ImageURLs = s.images.ResolveImageURLs(ctx, exercises[i].Images)
	}
}
