// internal/domain/coach_profile.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachProfile holds the branding consumed by the PDF renderer. A coach
// normally has a single default profile.
type CoachProfile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name          string             `bson:"name" json:"name"`
	LogoImage     string             `bson:"logoImage,omitempty" json:"logoImage,omitempty"` // base64 data URL
	TextColor     string             `bson:"textColor,omitempty" json:"textColor,omitempty"` // hex, e.g. "#1a1a2e"
	LineColor     string             `bson:"lineColor,omitempty" json:"lineColor,omitempty"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty"`
	ShowWatermark bool               `bson:"showWatermark" json:"showWatermark"`
	IsDefault     bool               `bson:"isDefault" json:"isDefault"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
