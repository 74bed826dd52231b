package service

import (
	"context"
	"errors"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrClientNotFound = errors.New("client not found")

type ClientService interface {
	Create(ctx context.Context, coachID primitive.ObjectID, client *domain.Client) (*domain.Client, error)
	GetByID(ctx context.Context, coachID, clientID primitive.ObjectID) (*domain.Client, error)
	List(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error)
	Update(ctx context.Context, coachID primitive.ObjectID, client *domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, coachID, clientID primitive.ObjectID) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	notifier   TreeNotifier
}

// NewClientService creates a new instance of clientService.
func NewClientService(clientRepo repository.ClientRepository, notifier TreeNotifier) ClientService {
	return &clientService{clientRepo: clientRepo, notifier: notifier}
}

func (s *clientService) Create(ctx context.Context, coachID primitive.ObjectID, client *domain.Client) (*domain.Client, error) {
	if client.Name == "" {
		return nil, errors.New("client name cannot be empty")
	}

	client.ID = primitive.NilObjectID
	client.CoachID = coachID

	id, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		return nil, err
	}
	client.ID = id

	s.changed(coachID)
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, coachID, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.CoachID != coachID {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error) {
	return s.clientRepo.GetByCoachID(ctx, coachID)
}

func (s *clientService) Update(ctx context.Context, coachID primitive.ObjectID, client *domain.Client) (*domain.Client, error) {
	existing, err := s.GetByID(ctx, coachID, client.ID)
	if err != nil {
		return nil, err
	}

	client.CoachID = coachID
	client.CreatedAt = existing.CreatedAt

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}

	s.changed(coachID)
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, coachID, clientID primitive.ObjectID) error {
	// Programs reference clients only by name label, so deleting a roster
	// entry never touches existing workouts.
	err := s.clientRepo.Delete(ctx, clientID, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	s.changed(coachID)
	return nil
}

func (s *clientService) changed(coachID primitive.ObjectID) {
	if s.notifier != nil {
		s.notifier.TreeChanged(coachID)
	}
}
