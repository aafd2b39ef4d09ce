// internal/domain/exercise.go
package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single catalogued movement in the exercise library.
// Records are seeded in bulk from the public exercise dataset and are
// read-only at query time.
type Exercise struct {
	ObjectID primitive.ObjectID `bson:"_id,omitempty" json:"_id"`          // Storage-assigned key
	ID       string             `bson:"id,omitempty" json:"id,omitempty"` // Stable dataset identifier, e.g. "Barbell_Bench_Press"
	Name     string             `bson:"name" json:"name"`

	Force     string `bson:"force,omitempty" json:"force,omitempty"`         // e.g. "push", "pull", "static"
	Level     string `bson:"level,omitempty" json:"level,omitempty"`         // e.g. "beginner", "intermediate", "expert"
	Mechanic  string `bson:"mechanic,omitempty" json:"mechanic,omitempty"`   // e.g. "compound", "isolation"
	Equipment string `bson:"equipment,omitempty" json:"equipment,omitempty"` // single-valued, e.g. "barbell"
	Category  string `bson:"category,omitempty" json:"category,omitempty"`   // e.g. "strength", "stretching"

	PrimaryMuscles   []string `bson:"primaryMuscles" json:"primaryMuscles"`
	SecondaryMuscles []string `bson:"secondaryMuscles,omitempty" json:"secondaryMuscles,omitempty"`
	Instructions     []string `bson:"instructions,omitempty" json:"instructions,omitempty"` // Step order is significant
	Images           []string `bson:"images,omitempty" json:"images,omitempty"`             // Opaque file names, e.g. "Barbell_Bench_Press/0.jpg"

	// ImageURLs is never persisted; it is filled from Images when a record is served.
	ImageURLs []string `bson:"-" json:"imageUrls,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Key returns the identifier used to address the exercise from outside the
// store: the dataset id when present, otherwise the storage key.
func (e Exercise) Key() string {
	if e.ID != "" {
		return e.ID
	}
	if e.ObjectID.IsZero() {
		return ""
	}
	return e.ObjectID.Hex()
}

// Muscles returns the union of primary and secondary muscles, primary first.
func (e Exercise) Muscles() []string {
	out := make([]string, 0, len(e.PrimaryMuscles)+len(e.SecondaryMuscles))
	out = append(out, e.PrimaryMuscles...)
	return append(out, e.SecondaryMuscles...)
}

// Normalize trims the name and reports whether the record is usable.
func (e *Exercise) Normalize() bool {
	e.Name = strings.TrimSpace(e.Name)
	return e.Name != ""
}
