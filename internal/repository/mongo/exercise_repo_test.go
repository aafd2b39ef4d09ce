package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/repository"
)

const testNamespace = "muscle_dynamics.exercises"

func TestExerciseFilterDocument(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.ExerciseFilter
		want   bson.M
	}{
		{
			name:   "empty filter matches everything",
			filter: domain.ExerciseFilter{},
			want:   bson.M{},
		},
		{
			name:   "muscles search both arrays",
			filter: domain.ExerciseFilter{Muscles: []string{"chest", "back"}},
			want: bson.M{"$or": bson.A{
				bson.M{"primaryMuscles": bson.M{"$in": []string{"chest", "back"}}},
				bson.M{"secondaryMuscles": bson.M{"$in": []string{"chest", "back"}}},
			}},
		},
		{
			name:   "equipment membership and exact category",
			filter: domain.ExerciseFilter{Equipment: []string{"barbell", "body only"}, Category: "strength"},
			want: bson.M{
				"equipment": bson.M{"$in": []string{"barbell", "body only"}},
				"category":  "strength",
			},
		},
		{
			name:   "search is a literal case-insensitive pattern",
			filter: domain.ExerciseFilter{Search: "e-z (curl)"},
			want:   bson.M{"name": primitive.Regex{Pattern: `e-z \(curl\)`, Options: "i"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exerciseFilterDocument(tt.filter))
		})
	}
}

func TestMongoExerciseRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("GetByID decodes a match", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "id", Value: "Barbell_Bench_Press"},
			{Key: "name", Value: "Barbell Bench Press"},
			{Key: "primaryMuscles", Value: bson.A{"chest"}},
		}))

		ex, err := repo.GetByID(context.Background(), oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, oid, ex.ObjectID)
		assert.Equal(mt, "Barbell Bench Press", ex.Name)
		assert.Equal(mt, []string{"chest"}, ex.PrimaryMuscles)
	})

	mt.Run("GetByID miss is ErrNotFound", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "not-a-real-id")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("GetByID empty id never queries", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)

		_, err := repo.GetByID(context.Background(), "")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("Find decodes the batch", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			bson.D{{Key: "name", Value: "Deadlift"}, {Key: "equipment", Value: "barbell"}},
			bson.D{{Key: "name", Value: "Push Ups"}, {Key: "equipment", Value: "body only"}},
		))

		got, err := repo.Find(context.Background(), domain.ExerciseFilter{Muscles: []string{"back"}}, 0, 50)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "Deadlift", got[0].Name)
		assert.Equal(mt, "body only", got[1].Equipment)
	})

	mt.Run("Find surfaces server errors", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad query",
		}))

		_, err := repo.Find(context.Background(), domain.ExerciseFilter{}, 0, 50)
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("Count reads the aggregate total", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(137)}},
		))

		n, err := repo.Count(context.Background(), domain.ExerciseFilter{Category: "strength"})
		require.NoError(mt, err)
		assert.EqualValues(mt, 137, n)
	})

	mt.Run("Distinct drops empty and non-string values", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{
			Key:   "values",
			Value: bson.A{"dumbbell", "", "barbell", nil, int32(3)},
		}))

		got, err := repo.Distinct(context.Background(), repository.FieldEquipment)
		require.NoError(mt, err)
		assert.Equal(mt, []string{"barbell", "dumbbell"}, got)
	})

	mt.Run("UpsertMany rejects records without id", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)

		_, err := repo.UpsertMany(context.Background(), []domain.Exercise{{Name: "Squat"}})
		assert.ErrorIs(mt, err, repository.ErrInvalidInput)
	})
}
