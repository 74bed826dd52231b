// internal/repository/mongo/glossary_repo.go
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

const glossaryCollectionName = "glossary_entries"

// mongoGlossaryRepository implements repository.GlossaryRepository
type mongoGlossaryRepository struct {
	collection *mongo.Collection
}

// NewMongoGlossaryRepository creates a new glossary repository.
func NewMongoGlossaryRepository(db *mongo.Database) repository.GlossaryRepository {
	return &mongoGlossaryRepository{
		collection: db.Collection(glossaryCollectionName),
	}
}

func (r *mongoGlossaryRepository) Create(ctx context.Context, entry *domain.GlossaryEntry) (primitive.ObjectID, error) {
	if entry.CoachID == primitive.NilObjectID || entry.Name == "" {
		return primitive.NilObjectID, errors.New("glossary entry requires coachId and name")
	}
	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted glossary entry ID")
	}
	return insertedID, nil
}

func (r *mongoGlossaryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GlossaryEntry, error) {
	var entry domain.GlossaryEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *mongoGlossaryRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.GlossaryEntry, error) {
	var entries []domain.GlossaryEntry
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *mongoGlossaryRepository) Update(ctx context.Context, entry *domain.GlossaryEntry) error {
	if entry.ID == primitive.NilObjectID {
		return errors.New("glossary entry ID is required for update")
	}

	filter := bson.M{"_id": entry.ID, "coachId": entry.CoachID}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":        entry.Name,
			"description": entry.Description,
			"images":      entry.Images,
			"updatedAt":   time.Now().UTC(),
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

func (r *mongoGlossaryRepository) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
	if id == primitive.NilObjectID || coachID == primitive.NilObjectID {
		return errors.New("glossary entry ID and coach ID are required for deletion")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "coachId": coachID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureGlossaryIndexes creates necessary indexes. Call during startup.
func EnsureGlossaryIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
