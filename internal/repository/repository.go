package repository

import (
	"context"

	"fittracker/server/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for coach account data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error
	SetBillingState(ctx context.Context, id primitive.ObjectID, stripeCustomerID string, isPaid bool) error
}

// WorkoutRepository defines the interface for workout program data. Updates
// replace the whole embedded week tree; there is no partial patching.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
	ReplaceAllForCoach(ctx context.Context, coachID primitive.ObjectID, workouts []domain.Workout) error
}

// ClientRepository defines the interface for roster data.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
	ReplaceAllForCoach(ctx context.Context, coachID primitive.ObjectID, clients []domain.Client) error
}

// GlossaryRepository defines the interface for the exercise glossary.
type GlossaryRepository interface {
	Create(ctx context.Context, entry *domain.GlossaryEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GlossaryEntry, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.GlossaryEntry, error)
	Update(ctx context.Context, entry *domain.GlossaryEntry) error
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
}

// CoachProfileRepository defines the interface for branding profiles.
type CoachProfileRepository interface {
	Create(ctx context.Context, profile *domain.CoachProfile) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CoachProfile, error)
	GetDefault(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachProfile, error)
	Update(ctx context.Context, profile *domain.CoachProfile) error
	Replace(ctx context.Context, coachID primitive.ObjectID, profile *domain.CoachProfile) error
}
