package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a coach account. All planner data (workouts, clients, glossary,
// profile) is scoped to the owning coach.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // never expose via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Set by the billing flow after a completed checkout.
	StripeCustomerID string `bson:"stripeCustomerId,omitempty" json:"stripeCustomerId,omitempty"`
	IsPaid           bool   `bson:"isPaid" json:"isPaid"`
}
