// internal/domain/glossary.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GlossaryEntry is a reusable exercise definition in the coach's library.
// Images are stored inline as base64 data URLs; its lifecycle is independent
// of any program that references it.
type GlossaryEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Snapshot copies the entry's content for denormalized storage on an
// Exercise. The copy does not track later edits to the entry.
func (g *GlossaryEntry) Snapshot() *GlossarySnapshot {
	images := make([]string, len(g.Images))
	copy(images, g.Images)
	return &GlossarySnapshot{
		Description: g.Description,
		Images:      images,
	}
}
