package service

import (
	"context"
	"errors"
	"time"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrGlossaryEntryNotFound = errors.New("glossary entry not found")

// GlossaryService manages the coach's reusable exercise library. Deleting an
// entry never touches snapshots already pinned onto workout exercises.
type GlossaryService interface {
	Create(ctx context.Context, coachID primitive.ObjectID, entry *domain.GlossaryEntry) (*domain.GlossaryEntry, error)
	GetByID(ctx context.Context, coachID, entryID primitive.ObjectID) (*domain.GlossaryEntry, error)
	List(ctx context.Context, coachID primitive.ObjectID) ([]domain.GlossaryEntry, error)
	Update(ctx context.Context, coachID primitive.ObjectID, entry *domain.GlossaryEntry) (*domain.GlossaryEntry, error)
	Delete(ctx context.Context, coachID, entryID primitive.ObjectID) error
}

type glossaryService struct {
	glossaryRepo repository.GlossaryRepository
	notifier     TreeNotifier
}

// NewGlossaryService creates a new instance of glossaryService.
func NewGlossaryService(glossaryRepo repository.GlossaryRepository, notifier TreeNotifier) GlossaryService {
	return &glossaryService{glossaryRepo: glossaryRepo, notifier: notifier}
}

func (s *glossaryService) Create(ctx context.Context, coachID primitive.ObjectID, entry *domain.GlossaryEntry) (*domain.GlossaryEntry, error) {
	if entry.Name == "" {
		return nil, errors.New("glossary entry name cannot be empty")
	}

	entry.ID = primitive.NilObjectID
	entry.CoachID = coachID

	id, err := s.glossaryRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	s.changed(coachID)
	return entry, nil
}

func (s *glossaryService) GetByID(ctx context.Context, coachID, entryID primitive.ObjectID) (*domain.GlossaryEntry, error) {
	entry, err := s.glossaryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGlossaryEntryNotFound
		}
		return nil, err
	}
	if entry.CoachID != coachID {
		return nil, ErrGlossaryEntryNotFound
	}
	return entry, nil
}

func (s *glossaryService) List(ctx context.Context, coachID primitive.ObjectID) ([]domain.GlossaryEntry, error) {
	return s.glossaryRepo.GetByCoachID(ctx, coachID)
}

func (s *glossaryService) Update(ctx context.Context, coachID primitive.ObjectID, entry *domain.GlossaryEntry) (*domain.GlossaryEntry, error) {
	existing, err := s.GetByID(ctx, coachID, entry.ID)
	if err != nil {
		return nil, err
	}

	entry.CoachID = coachID
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = time.Now()

	if err := s.glossaryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.changed(coachID)
	return entry, nil
}

func (s *glossaryService) Delete(ctx context.Context, coachID, entryID primitive.ObjectID) error {
	err := s.glossaryRepo.Delete(ctx, entryID, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGlossaryEntryNotFound
		}
		return err
	}
	s.changed(coachID)
	return nil
}

func (s *glossaryService) changed(coachID primitive.ObjectID) {
	if s.notifier != nil {
		s.notifier.TreeChanged(coachID)
	}
}
