package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/repository"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// exerciseFilterDocument translates an ExerciseFilter into a query document.
// Muscles match against either muscle array, equipment is a membership test,
// category is exact and search is a case-insensitive literal substring.
func exerciseFilterDocument(f domain.ExerciseFilter) bson.M {
	filter := bson.M{}

	if len(f.Muscles) > 0 {
		filter["$or"] = bson.A{
			bson.M{"primaryMuscles": bson.M{"$in": f.Muscles}},
			bson.M{"secondaryMuscles": bson.M{"$in": f.Muscles}},
		}
	}
	if len(f.Equipment) > 0 {
		filter["equipment"] = bson.M{"$in": f.Equipment}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}

	return filter
}

// Find returns one window of matches sorted by name. The _id tiebreak keeps
// equal names in insertion order so pages never overlap.
func (r *mongoExerciseRepository) Find(ctx context.Context, filter domain.ExerciseFilter, skip, limit int64) ([]domain.Exercise, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip)
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, exerciseFilterDocument(filter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.Exercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Count returns the number of matches before pagination.
func (r *mongoExerciseRepository) Count(ctx context.Context, filter domain.ExerciseFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, exerciseFilterDocument(filter))
}

// GetByID accepts either the ObjectID hex of the storage key or the dataset id.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}

	filter := bson.M{"id": id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"$or": bson.A{bson.M{"_id": oid}, bson.M{"id": id}}}
	}

	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Distinct returns the sorted distinct non-empty string values of field.
// Array fields contribute their individual elements.
func (r *mongoExerciseRepository) Distinct(ctx context.Context, field string) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		values = append(values, s)
	}
	sort.Strings(values)
	return values, nil
}

// Sample draws size records with $sample. The server may repeat a document
// when size is small relative to the collection; callers de-duplicate.
func (r *mongoExerciseRepository) Sample(ctx context.Context, size int) ([]domain.Exercise, error) {
	if size <= 0 {
		return []domain.Exercise{}, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: size}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.Exercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Ping checks that the primary is reachable.
func (r *mongoExerciseRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

// UpsertMany writes exercises keyed on the dataset id in one unordered bulk
// write. createdAt is only set on insert.
func (r *mongoExerciseRepository) UpsertMany(ctx context.Context, exercises []domain.Exercise) (repository.UpsertResult, error) {
	if len(exercises) == 0 {
		return repository.UpsertResult{}, nil
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(exercises))
	for _, ex := range exercises {
		if ex.ID == "" || ex.Name == "" {
			return repository.UpsertResult{}, fmt.Errorf("%w: exercise id and name are required (%q)", repository.ErrInvalidInput, ex.Name)
		}
		update := bson.M{
			"$set": bson.M{
				"name":             ex.Name,
				"force":            ex.Force,
				"level":            ex.Level,
				"mechanic":         ex.Mechanic,
				"equipment":        ex.Equipment,
				"category":         ex.Category,
				"primaryMuscles":   nonNil(ex.PrimaryMuscles),
				"secondaryMuscles": nonNil(ex.SecondaryMuscles),
				"instructions":     nonNil(ex.Instructions),
				"images":           nonNil(ex.Images),
				"updatedAt":        now,
			},
			"$setOnInsert": bson.M{
				"createdAt": now,
			},
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"id": ex.ID}).
			SetUpdate(update).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return repository.UpsertResult{}, err
	}
	return repository.UpsertResult{
		Inserted: result.UpsertedCount,
		Updated:  result.MatchedCount,
	}, nil
}

// DeleteAll empties the collection, used by a full re-seed.
func (r *mongoExerciseRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// EnsureExerciseIndexes creates the indexes used by the filter dimensions and
// the name sort.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection, logger *zap.Logger) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "primaryMuscles", Value: 1}}},
		{Keys: bson.D{{Key: "secondaryMuscles", Value: 1}}},
		{Keys: bson.D{{Key: "equipment", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}},
		{
			// Dataset ids are unique when present
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("exercise_dataset_id").SetUnique(true).SetSparse(true),
		},
	}

	names, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Warn("Failed to create indexes", zap.String("collection", collection.Name()), zap.Error(err))
		return err
	}
	logger.Debug("Indexes ensured", zap.String("collection", collection.Name()), zap.Strings("indexes", names))
	return nil
}

// ExerciseCollection returns the collection the repository reads from.
func ExerciseCollection(db *mongo.Database) *mongo.Collection {
	return db.Collection(exerciseCollectionName)
}
