package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/repository"
	"fittracker/server/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrProfileNotFound = errors.New("coach profile not found")

// Default branding applied before the coach customizes anything.
const (
	defaultTextColor = "#1a1a2e"
	defaultLineColor = "#4f46e5"
)

type ProfileService interface {
	// Create adds a branding profile. The coach's first profile becomes the
	// default.
	Create(ctx context.Context, coachID primitive.ObjectID, profile *domain.CoachProfile) (*domain.CoachProfile, error)
	// GetDefault returns the coach's default branding profile, creating an
	// initial one on first access.
	GetDefault(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachProfile, error)
	GetByID(ctx context.Context, coachID, profileID primitive.ObjectID) (*domain.CoachProfile, error)
	Update(ctx context.Context, coachID primitive.ObjectID, profile *domain.CoachProfile) (*domain.CoachProfile, error)
	// LogoUploadURL issues a presigned PUT URL for uploading a logo image
	// directly to object storage.
	LogoUploadURL(ctx context.Context, coachID primitive.ObjectID, contentType string) (uploadURL, objectKey string, err error)
}

type profileService struct {
	profileRepo repository.CoachProfileRepository
	fileStorage storage.FileStorage
	notifier    TreeNotifier
}

// NewProfileService creates a new instance of profileService. fileStorage
// may be nil; LogoUploadURL then reports an error.
func NewProfileService(profileRepo repository.CoachProfileRepository, fileStorage storage.FileStorage, notifier TreeNotifier) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		fileStorage: fileStorage,
		notifier:    notifier,
	}
}

func (s *profileService) Create(ctx context.Context, coachID primitive.ObjectID, profile *domain.CoachProfile) (*domain.CoachProfile, error) {
	profile.ID = primitive.NilObjectID
	profile.CoachID = coachID
	if profile.TextColor == "" {
		profile.TextColor = defaultTextColor
	}
	if profile.LineColor == "" {
		profile.LineColor = defaultLineColor
	}

	if _, err := s.profileRepo.GetDefault(ctx, coachID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		profile.IsDefault = true
	}

	id, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		return nil, err
	}
	profile.ID = id

	if s.notifier != nil {
		s.notifier.TreeChanged(coachID)
	}
	return profile, nil
}

func (s *profileService) GetDefault(ctx context.Context, coachID primitive.ObjectID) (*domain.CoachProfile, error) {
	profile, err := s.profileRepo.GetDefault(ctx, coachID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// First access: seed an unbranded default so the PDF renderer and the
	// settings page always have something to work with.
	profile = &domain.CoachProfile{
		CoachID:       coachID,
		Name:          "",
		TextColor:     defaultTextColor,
		LineColor:     defaultLineColor,
		ShowWatermark: true,
		IsDefault:     true,
	}
	id, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		return nil, err
	}
	profile.ID = id
	return profile, nil
}

func (s *profileService) GetByID(ctx context.Context, coachID, profileID primitive.ObjectID) (*domain.CoachProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if profile.CoachID != coachID {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, coachID primitive.ObjectID, profile *domain.CoachProfile) (*domain.CoachProfile, error) {
	profile.CoachID = coachID

	if profile.ID.IsZero() {
		// Updating without an ID targets the default profile.
		existing, err := s.GetDefault(ctx, coachID)
		if err != nil {
			return nil, err
		}
		profile.ID = existing.ID
		profile.IsDefault = existing.IsDefault
		profile.CreatedAt = existing.CreatedAt
	} else if _, err := s.GetByID(ctx, coachID, profile.ID); err != nil {
		return nil, err
	}

	profile.UpdatedAt = time.Now()
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.TreeChanged(coachID)
	}
	return profile, nil
}

func (s *profileService) LogoUploadURL(ctx context.Context, coachID primitive.ObjectID, contentType string) (string, string, error) {
	if s.fileStorage == nil {
		return "", "", errors.New("file storage is not configured")
	}
	if contentType == "" {
		contentType = "image/png"
	}

	objectKey := fmt.Sprintf("profiles/%s/logo", coachID.Hex())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}
	return uploadURL, objectKey, nil
}
