package wizard

import "muscledynamics/workout-builder/internal/domain"

// Per-exercise estimates used by Summarize.
const (
	setsPerExercise     = 3
	minutesPerExercise  = 10
	caloriesPerExercise = 50
)

// Summary describes a workout built from the current list.
type Summary struct {
	TotalExercises       int `json:"totalExercises"`
	TotalSets            int `json:"totalSets"`
	EstimatedTimeMinutes int `json:"estimatedTimeMinutes"`
	CaloriesEstimate     int `json:"caloriesEstimate"`
}

// Summarize derives the workout summary for n exercises.
func Summarize(n int) Summary {
	if n < 0 {
		n = 0
	}
	return Summary{
		TotalExercises:       n,
		TotalSets:            n * setsPerExercise,
		EstimatedTimeMinutes: n * minutesPerExercise,
		CaloriesEstimate:     n * caloriesPerExercise,
	}
}

// FallbackExercises is the list shown when the exercise query fails.
func FallbackExercises() []domain.Exercise {
	return []domain.Exercise{
		{ID: "fallback-1", Name: "Push Ups", Equipment: "body only", PrimaryMuscles: []string{"chest"}, Category: "strength", Level: "beginner"},
		{ID: "fallback-2", Name: "Pull Ups", Equipment: "body only", PrimaryMuscles: []string{"lats"}, Category: "strength", Level: "intermediate"},
		{ID: "fallback-3", Name: "Squats", Equipment: "body only", PrimaryMuscles: []string{"quadriceps"}, Category: "strength", Level: "beginner"},
		{ID: "fallback-4", Name: "Bench Press", Equipment: "barbell", PrimaryMuscles: []string{"chest"}, Category: "strength", Level: "intermediate"},
		{ID: "fallback-5", Name: "Deadlift", Equipment: "barbell", PrimaryMuscles: []string{"lower back"}, Category: "strength", Level: "expert"},
		{ID: "fallback-6", Name: "Bicep Curls", Equipment: "dumbbell", PrimaryMuscles: []string{"biceps"}, Category: "strength", Level: "beginner"},
	}
}
