// Package seed loads the public exercise dataset (a JSON array of exercise
// records) into an exercise store.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/repository"
)

// DefaultDatasetURL is the combined JSON file of the free exercise dataset.
const DefaultDatasetURL = "https://raw.githubusercontent.com/yuhonas/free-exercise-db/main/dist/exercises.json"

const defaultBatchSize = 500

// Options controls an import.
type Options struct {
	// Drop empties the collection before writing.
	Drop bool
	// BatchSize is the number of records per bulk write; 0 means 500.
	BatchSize int
}

// Result summarises an import.
type Result struct {
	Read             int
	Skipped          int
	Deleted          int64
	Inserted         int64
	Updated          int64
	UnknownMuscles   []string
	UnknownEquipment []string
}

// Decode reads a JSON array of exercises.
func Decode(r io.Reader) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	if err := json.NewDecoder(r).Decode(&exercises); err != nil {
		return nil, fmt.Errorf("decode exercise dataset: %w", err)
	}
	return exercises, nil
}

// Normalize trims names, drops records whose name is empty, derives a dataset
// id from the name where one is missing and keeps the last record for a
// repeated id. It returns the usable records and the number skipped.
func Normalize(in []domain.Exercise) ([]domain.Exercise, int) {
	out := make([]domain.Exercise, 0, len(in))
	index := make(map[string]int, len(in))
	skipped := 0

	for _, ex := range in {
		if !ex.Normalize() {
			skipped++
			continue
		}
		ex.ID = strings.TrimSpace(ex.ID)
		if ex.ID == "" {
			ex.ID = idFromName(ex.Name)
			if _, taken := index[ex.ID]; taken {
				ex.ID += "_" + uuid.NewString()[:8]
			}
		}
		if i, dup := index[ex.ID]; dup {
			out[i] = ex
			skipped++
			continue
		}
		index[ex.ID] = len(out)
		out = append(out, ex)
	}
	return out, skipped
}

// idFromName follows the dataset convention: "Barbell Curl" -> "Barbell_Curl".
func idFromName(name string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(name, "/", " ")), "_")
}

// unknownVocabulary lists muscle and equipment values outside the dataset
// vocabulary. They are still imported.
func unknownVocabulary(exercises []domain.Exercise) (muscles, equipment []string) {
	for _, ex := range exercises {
		for _, m := range ex.Muscles() {
			if m != "" && !domain.Muscle(m).IsKnown() && !slices.Contains(muscles, m) {
				muscles = append(muscles, m)
			}
		}
		if ex.Equipment != "" && !domain.Equipment(ex.Equipment).IsKnown() && !slices.Contains(equipment, ex.Equipment) {
			equipment = append(equipment, ex.Equipment)
		}
	}
	slices.Sort(muscles)
	slices.Sort(equipment)
	return muscles, equipment
}

// Import normalizes exercises and bulk-upserts them in batches.
func Import(ctx context.Context, repo repository.ExerciseWriter, exercises []domain.Exercise, opts Options, logger *zap.Logger) (Result, error) {
	res := Result{Read: len(exercises)}

	clean, skipped := Normalize(exercises)
	res.Skipped = skipped
	res.UnknownMuscles, res.UnknownEquipment = unknownVocabulary(clean)
	if len(res.UnknownMuscles) > 0 || len(res.UnknownEquipment) > 0 {
		logger.Warn("Dataset uses values outside the known vocabulary",
			zap.Strings("muscles", res.UnknownMuscles),
			zap.Strings("equipment", res.UnknownEquipment))
	}

	if opts.Drop {
		deleted, err := repo.DeleteAll(ctx)
		if err != nil {
			return res, fmt.Errorf("drop exercises: %w", err)
		}
		res.Deleted = deleted
		logger.Info("Existing exercises removed", zap.Int64("deleted", deleted))
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	for batch := range slices.Chunk(clean, batchSize) {
		written, err := repo.UpsertMany(ctx, batch)
		if err != nil {
			return res, fmt.Errorf("upsert exercises: %w", err)
		}
		res.Inserted += written.Inserted
		res.Updated += written.Updated
		logger.Debug("Batch written", zap.Int("size", len(batch)), zap.Int64("inserted", written.Inserted))
	}

	logger.Info("Exercise import finished",
		zap.Int("read", res.Read),
		zap.Int("skipped", res.Skipped),
		zap.Int64("inserted", res.Inserted),
		zap.Int64("updated", res.Updated))
	return res, nil
}

// ImportFile decodes a dataset file and imports it.
func ImportFile(ctx context.Context, repo repository.ExerciseWriter, path string, opts Options, logger *zap.Logger) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	exercises, err := Decode(f)
	if err != nil {
		return Result{}, err
	}
	return Import(ctx, repo, exercises, opts, logger)
}

// ImportURL downloads a dataset and imports it.
func ImportURL(ctx context.Context, repo repository.ExerciseWriter, url string, opts Options, logger *zap.Logger) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("download dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return Result{}, fmt.Errorf("download dataset: unexpected status %s", resp.Status)
	}

	exercises, err := Decode(resp.Body)
	if err != nil {
		return Result{}, err
	}
	return Import(ctx, repo, exercises, opts, logger)
}
