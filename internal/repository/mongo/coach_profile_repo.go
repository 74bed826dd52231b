package mongo

import (
	"context"
	"errors"
	"time"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const coachProfileCollectionName = "coach_profiles"

// mongoCoachProfileRepository implements repository.CoachProfileRepository
type mongoCoachProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoCoachProfileRepository creates a new branding profile repository.
func NewMongoCoachProfileRepository(db *mongo.Database) repository.CoachProfileRepository {
	return &mongoCoachProfileRepository{
		collection: db.Collection(coachProfileCollectionName),
	}
}

func (r *mongoCoachProfileRepository) Create(ctx context.Context, profile *domain.CoachProfile) (primitive.ObjectID, error) {
	if profile.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("coach profile requires coachId")
	}
	if profile.ID == primitive.NilObjectID {
		profile.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted profile ID")
	}
	return insertedID, nil
}

func (r *mongoCoachProfileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CoachProfile, error) {
	var profile domain.CoachProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetDefault returns the coach's default profile, falling back to the
// oldest profile when none is flagged as default.
func (r *mongoCoachProfileRepository) GetDefault(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachProfile, error) {
	var profile domain.CoachProfile
	err := r.collection.FindOne(ctx, bson.M{"coachId": coachID, "isDefault": true}).Decode(&profile)
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	err = r.collection.FindOne(ctx, bson.M{"coachId": coachID}, findOptions).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *mongoCoachProfileRepository) Update(ctx context.Context, profile *domain.CoachProfile) error {
	if profile.ID == primitive.NilObjectID {
		return errors.New("coach profile ID is required for update")
	}

	filter := bson.M{"_id": profile.ID, "coachId": profile.CoachID}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":          profile.Name,
			"logoImage":     profile.LogoImage,
			"textColor":     profile.TextColor,
			"lineColor":     profile.LineColor,
			"email":         profile.Email,
			"phone":         profile.Phone,
			"website":       profile.Website,
			"showWatermark": profile.ShowWatermark,
			"isDefault":     profile.IsDefault,
			"updatedAt":     time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Replace drops any existing profiles for the coach and installs the given
// one as default. Used by backup import.
func (r *mongoCoachProfileRepository) Replace(ctx context.Context, coachID primitive.ObjectID, profile *domain.CoachProfile) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"coachId": coachID}); err != nil {
		return err
	}
	if profile == nil {
		return nil
	}
	profile.CoachID = coachID
	profile.IsDefault = true
	_, err := r.Create(ctx, profile)
	return err
}

// EnsureCoachProfileIndexes creates necessary indexes. Call during startup.
func EnsureCoachProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "isDefault", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
