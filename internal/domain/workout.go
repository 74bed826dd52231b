package domain

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a complete multi-week training program built by a coach for
// one client. The week/day/exercise tree is embedded in the document and
// always replaced as a whole on mutation.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`
	ClientName  string             `bson:"clientName" json:"clientName"` // label only, no foreign key to Client
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Comment     string             `bson:"comment,omitempty" json:"comment,omitempty"` // free-text client feedback
	Weeks       []Week             `bson:"weeks" json:"weeks"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Week is one training week inside a program.
type Week struct {
	ID     string `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Number int    `bson:"number" json:"number"` // advisory ordinal; not re-derived on reorder
	Notes  string `bson:"notes,omitempty" json:"notes,omitempty"`
	Days   []Day  `bson:"days" json:"days"`
}

// Day is one training day inside a week.
type Day struct {
	ID        string     `bson:"id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Exercises []Exercise `bson:"exercises" json:"exercises"`
}

// Exercise is a single prescribed exercise. Sets/Reps/Rest are free text on
// purpose: coaches write things like "10-12" or "60-90".
type Exercise struct {
	ID         string            `bson:"id" json:"id"`
	Name       string            `bson:"name" json:"name"`
	Sets       string            `bson:"sets" json:"sets"`
	Reps       string            `bson:"reps" json:"reps"`
	Rest       string            `bson:"rest,omitempty" json:"rest,omitempty"` // seconds, free text
	Notes      string            `bson:"notes,omitempty" json:"notes,omitempty"`
	GlossaryID string            `bson:"glossaryId,omitempty" json:"glossaryId,omitempty"`
	Glossary   *GlossarySnapshot `bson:"glossary,omitempty" json:"glossary,omitempty"`
}

// GlossarySnapshot is a copy of a glossary entry's content taken when the
// coach picked it for an exercise. Later edits to the entry do not propagate.
type GlossarySnapshot struct {
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Images      []string `bson:"images,omitempty" json:"images,omitempty"`
}

// NewNodeID returns a time-ordered identifier for a tree node (week, day or
// exercise). Collisions are treated as a bug, not a runtime condition.
func NewNodeID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
