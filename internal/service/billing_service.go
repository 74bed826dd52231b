package service

import (
	"context"
	"errors"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/payment"
	"fittracker/server/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrCheckoutIncomplete = errors.New("checkout session is not paid")

type BillingService interface {
	// CreateCheckoutSession starts a hosted subscription checkout for the
	// coach on the chosen plan and returns the provider session (ID plus
	// redirect URL). An empty priceID selects the configured default plan.
	CreateCheckoutSession(ctx context.Context, coachID primitive.ObjectID, priceID string) (*payment.CheckoutSession, error)
	// ConfirmSubscription resolves a completed checkout session and marks
	// the coach's account as paid.
	ConfirmSubscription(ctx context.Context, coachID primitive.ObjectID, sessionID string) (*domain.User, error)
}

type billingService struct {
	userRepo repository.UserRepository
	provider payment.CheckoutProvider
}

// NewBillingService creates a new instance of billingService.
func NewBillingService(userRepo repository.UserRepository, provider payment.CheckoutProvider) BillingService {
	return &billingService{userRepo: userRepo, provider: provider}
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, coachID primitive.ObjectID, priceID string) (*payment.CheckoutSession, error) {
	user, err := s.userRepo.GetByID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	return s.provider.CreateCheckoutSession(ctx, user.Email, user.Name, priceID)
}

func (s *billingService) ConfirmSubscription(ctx context.Context, coachID primitive.ObjectID, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	result, err := s.provider.ConfirmSubscription(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !result.Paid {
		return nil, ErrCheckoutIncomplete
	}

	if err := s.userRepo.SetBillingState(ctx, coachID, result.CustomerID, true); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
