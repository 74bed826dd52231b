package service

import (
	"context"
	"errors"
	"time"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/program"
	"fittracker/server/internal/render"
	"fittracker/server/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrAccessDenied    = errors.New("access denied to this resource")
)

// TreeNotifier receives a signal whenever a coach's planner data changes.
// The backup scheduler implements it to debounce auto-exports.
type TreeNotifier interface {
	TreeChanged(coachID primitive.ObjectID)
}

type WorkoutService interface {
	Create(ctx context.Context, coachID primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error)
	GetByID(ctx context.Context, coachID, workoutID primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, coachID primitive.ObjectID) ([]domain.Workout, error)
	Update(ctx context.Context, coachID primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error)
	Delete(ctx context.Context, coachID, workoutID primitive.ObjectID) error
	// Reorder applies one drag-and-drop move to the week tree. A malformed
	// or stale move leaves the program unchanged and is not an error.
	Reorder(ctx context.Context, coachID, workoutID primitive.ObjectID, mv program.Move) (*domain.Workout, error)
	// RenderPDF produces the printable program. profileID selects a branding
	// profile; the nil ObjectID means the coach's default profile.
	RenderPDF(ctx context.Context, coachID, workoutID, profileID primitive.ObjectID) ([]byte, error)
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	glossaryRepo repository.GlossaryRepository
	profileRepo  repository.CoachProfileRepository
	notifier     TreeNotifier
}

// NewWorkoutService creates a new instance of workoutService. notifier may
// be nil when no auto-backup is configured.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	glossaryRepo repository.GlossaryRepository,
	profileRepo repository.CoachProfileRepository,
	notifier TreeNotifier,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		glossaryRepo: glossaryRepo,
		profileRepo:  profileRepo,
		notifier:     notifier,
	}
}

func (s *workoutService) Create(ctx context.Context, coachID primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error) {
	if workout.ClientName == "" {
		return nil, errors.New("clientName cannot be empty")
	}

	workout.ID = primitive.NilObjectID
	workout.CoachID = coachID
	ensureNodeIDs(workout.Weeks)
	if err := s.pinGlossarySnapshots(ctx, coachID, workout.Weeks); err != nil {
		return nil, err
	}

	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = id

	s.treeChanged(coachID)
	return workout, nil
}

func (s *workoutService) GetByID(ctx context.Context, coachID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	return s.getOwned(ctx, coachID, workoutID)
}

func (s *workoutService) List(ctx context.Context, coachID primitive.ObjectID) ([]domain.Workout, error) {
	return s.workoutRepo.GetByCoachID(ctx, coachID)
}

func (s *workoutService) Update(ctx context.Context, coachID primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error) {
	existing, err := s.getOwned(ctx, coachID, workout.ID)
	if err != nil {
		return nil, err
	}

	workout.CoachID = coachID
	workout.CreatedAt = existing.CreatedAt
	workout.UpdatedAt = time.Now()
	ensureNodeIDs(workout.Weeks)
	if err := s.pinGlossarySnapshots(ctx, coachID, workout.Weeks); err != nil {
		return nil, err
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, err
	}

	s.treeChanged(coachID)
	return workout, nil
}

func (s *workoutService) Delete(ctx context.Context, coachID, workoutID primitive.ObjectID) error {
	err := s.workoutRepo.Delete(ctx, workoutID, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	s.treeChanged(coachID)
	return nil
}

func (s *workoutService) Reorder(ctx context.Context, coachID, workoutID primitive.ObjectID, mv program.Move) (*domain.Workout, error) {
	workout, err := s.getOwned(ctx, coachID, workoutID)
	if err != nil {
		return nil, err
	}

	weeks, changed := program.ApplyMove(workout.Weeks, mv)
	if !changed {
		// Stale or malformed moves (cancelled drags, concurrent edits) are
		// silently ignored so the client can always re-sync from the result.
		return workout, nil
	}

	workout.Weeks = weeks
	workout.UpdatedAt = time.Now()
	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, err
	}

	s.treeChanged(coachID)
	return workout, nil
}

func (s *workoutService) RenderPDF(ctx context.Context, coachID, workoutID, profileID primitive.ObjectID) ([]byte, error) {
	workout, err := s.getOwned(ctx, coachID, workoutID)
	if err != nil {
		return nil, err
	}

	var profile *domain.CoachProfile
	if !profileID.IsZero() {
		profile, err = s.profileRepo.GetByID(ctx, profileID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if profile != nil && profile.CoachID != coachID {
			return nil, ErrAccessDenied
		}
	} else {
		profile, err = s.profileRepo.GetDefault(ctx, coachID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	return render.RenderProgram(workout, profile)
}

// getOwned loads a workout and enforces coach ownership.
func (s *workoutService) getOwned(ctx context.Context, coachID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.CoachID != coachID {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

func (s *workoutService) treeChanged(coachID primitive.ObjectID) {
	if s.notifier != nil {
		s.notifier.TreeChanged(coachID)
	}
}

// ensureNodeIDs fills in identifiers for tree nodes created client-side
// without one.
func ensureNodeIDs(weeks []domain.Week) {
	for wi := range weeks {
		if weeks[wi].ID == "" {
			weeks[wi].ID = domain.NewNodeID()
		}
		for di := range weeks[wi].Days {
			day := &weeks[wi].Days[di]
			if day.ID == "" {
				day.ID = domain.NewNodeID()
			}
			for ei := range day.Exercises {
				if day.Exercises[ei].ID == "" {
					day.Exercises[ei].ID = domain.NewNodeID()
				}
			}
		}
	}
}

// pinGlossarySnapshots copies glossary content onto exercises that reference
// an entry but have no snapshot yet. The snapshot is taken once; later edits
// to the glossary entry do not rewrite it.
func (s *workoutService) pinGlossarySnapshots(ctx context.Context, coachID primitive.ObjectID, weeks []domain.Week) error {
	cache := map[string]*domain.GlossarySnapshot{}

	for wi := range weeks {
		for di := range weeks[wi].Days {
			exercises := weeks[wi].Days[di].Exercises
			for ei := range exercises {
				ex := &exercises[ei]
				if ex.GlossaryID == "" || ex.Glossary != nil {
					continue
				}

				snap, seen := cache[ex.GlossaryID]
				if !seen {
					entryID, err := primitive.ObjectIDFromHex(ex.GlossaryID)
					if err != nil {
						// Dangling reference; keep the ID, skip the snapshot.
						cache[ex.GlossaryID] = nil
						continue
					}
					entry, err := s.glossaryRepo.GetByID(ctx, entryID)
					switch {
					case errors.Is(err, repository.ErrNotFound):
						cache[ex.GlossaryID] = nil
						continue
					case err != nil:
						return err
					case entry.CoachID != coachID:
						cache[ex.GlossaryID] = nil
						continue
					}
					snap = entry.Snapshot()
					cache[ex.GlossaryID] = snap
				}
				if snap != nil {
					ex.Glossary = &domain.GlossarySnapshot{
						Description: snap.Description,
						Images:      append([]string(nil), snap.Images...),
					}
				}
			}
		}
	}
	return nil
}
