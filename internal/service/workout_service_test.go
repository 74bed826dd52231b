package service

import (
	"bytes"
	"context"
	"testing"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/program"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutFixture struct {
	svc          WorkoutService
	workoutRepo  *fakeWorkoutRepo
	glossaryRepo *fakeGlossaryRepo
	profileRepo  *fakeProfileRepo
	notifier     *fakeNotifier
	coachID      primitive.ObjectID
}

func newWorkoutFixture() *workoutFixture {
	f := &workoutFixture{
		workoutRepo:  newFakeWorkoutRepo(),
		glossaryRepo: newFakeGlossaryRepo(),
		profileRepo:  newFakeProfileRepo(),
		notifier:     &fakeNotifier{},
		coachID:      primitive.NewObjectID(),
	}
	f.svc = NewWorkoutService(f.workoutRepo, f.glossaryRepo, f.profileRepo, f.notifier)
	return f
}

func programWithTwoWeeks() *domain.Workout {
	return &domain.Workout{
		ClientName: "Jamie Doe",
		Weeks: []domain.Week{
			{
				ID: "w1", Name: "Week 1", Number: 1,
				Days: []domain.Day{
					{ID: "d1", Name: "Day 1", Exercises: []domain.Exercise{
						{ID: "e1", Name: "Squat", Sets: "5", Reps: "5"},
						{ID: "e2", Name: "Bench", Sets: "5", Reps: "5"},
						{ID: "e3", Name: "Row", Sets: "3", Reps: "8"},
					}},
					{ID: "d2", Name: "Day 2"},
				},
			},
			{
				ID: "w2", Name: "Week 2", Number: 2,
				Days: []domain.Day{
					{ID: "d3", Name: "Day 3", Exercises: []domain.Exercise{
						{ID: "e4", Name: "Deadlift", Sets: "3", Reps: "3"},
					}},
				},
			},
		},
	}
}

func TestWorkoutCreateAssignsNodeIDs(t *testing.T) {
	f := newWorkoutFixture()
	w := &domain.Workout{
		ClientName: "Jamie Doe",
		Weeks: []domain.Week{
			{Name: "Week 1", Days: []domain.Day{
				{Name: "Day 1", Exercises: []domain.Exercise{{Name: "Squat"}}},
			}},
		},
	}

	created, err := f.svc.Create(context.Background(), f.coachID, w)
	require.NoError(t, err, "Create should succeed")
	require.False(t, created.ID.IsZero(), "Workout should get a generated ID")
	assert.NotEmpty(t, created.Weeks[0].ID, "Week should get a node ID")
	assert.NotEmpty(t, created.Weeks[0].Days[0].ID, "Day should get a node ID")
	assert.NotEmpty(t, created.Weeks[0].Days[0].Exercises[0].ID, "Exercise should get a node ID")
	assert.Equal(t, 1, f.notifier.count(), "Creating a program should signal a tree change")
}

func TestWorkoutCreatePinsGlossarySnapshot(t *testing.T) {
	f := newWorkoutFixture()
	entryID, err := f.glossaryRepo.Create(context.Background(), &domain.GlossaryEntry{
		CoachID:     f.coachID,
		Name:        "Back Squat",
		Description: "Brace hard.",
		Images:      []string{"data:image/png;base64,AAAA"},
	})
	require.NoError(t, err)

	w := programWithTwoWeeks()
	w.Weeks[0].Days[0].Exercises[0].GlossaryID = entryID.Hex()

	created, err := f.svc.Create(context.Background(), f.coachID, w)
	require.NoError(t, err, "Create should succeed")

	snap := created.Weeks[0].Days[0].Exercises[0].Glossary
	require.NotNil(t, snap, "Exercise referencing a glossary entry should get a snapshot")
	assert.Equal(t, "Brace hard.", snap.Description, "Snapshot should copy the description")

	// Editing the entry afterwards must not rewrite the pinned snapshot.
	entry, err := f.glossaryRepo.GetByID(context.Background(), entryID)
	require.NoError(t, err)
	entry.Description = "Changed."
	require.NoError(t, f.glossaryRepo.Update(context.Background(), entry))

	stored, err := f.svc.GetByID(context.Background(), f.coachID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brace hard.", stored.Weeks[0].Days[0].Exercises[0].Glossary.Description,
		"Snapshot should not track later glossary edits")
}

func TestWorkoutCreateIgnoresDanglingGlossaryRef(t *testing.T) {
	f := newWorkoutFixture()
	w := programWithTwoWeeks()
	w.Weeks[0].Days[0].Exercises[0].GlossaryID = primitive.NewObjectID().Hex()

	created, err := f.svc.Create(context.Background(), f.coachID, w)
	require.NoError(t, err, "A dangling glossary reference should not fail the create")
	assert.Nil(t, created.Weeks[0].Days[0].Exercises[0].Glossary, "No snapshot for a missing entry")
	assert.NotEmpty(t, created.Weeks[0].Days[0].Exercises[0].GlossaryID, "Reference should be kept")
}

func TestWorkoutReorderPersistsAndNotifies(t *testing.T) {
	f := newWorkoutFixture()
	created, err := f.svc.Create(context.Background(), f.coachID, programWithTwoWeeks())
	require.NoError(t, err)
	baseline := f.notifier.count()

	mv := program.Move{
		Level:       program.LevelExercise,
		Source:      program.Position{ContainerKey: program.ExerciseContainerKey("w1", "d1"), Index: 0},
		Destination: &program.Position{ContainerKey: program.ExerciseContainerKey("w1", "d1"), Index: 2},
	}
	updated, err := f.svc.Reorder(context.Background(), f.coachID, created.ID, mv)
	require.NoError(t, err, "Reorder should succeed")

	got := []string{}
	for _, ex := range updated.Weeks[0].Days[0].Exercises {
		got = append(got, ex.ID)
	}
	assert.Equal(t, []string{"e2", "e3", "e1"}, got, "Exercise should land at the end of its day")
	assert.Equal(t, baseline+1, f.notifier.count(), "A real move should signal a tree change")

	stored, err := f.svc.GetByID(context.Background(), f.coachID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "e2", stored.Weeks[0].Days[0].Exercises[0].ID, "Reorder should be persisted")
}

func TestWorkoutReorderNoOpSkipsPersistence(t *testing.T) {
	f := newWorkoutFixture()
	created, err := f.svc.Create(context.Background(), f.coachID, programWithTwoWeeks())
	require.NoError(t, err)
	baseline := f.notifier.count()
	updatesBefore := f.workoutRepo.updates

	tests := []struct {
		name string
		mv   program.Move
	}{
		{"cancelled drag", program.Move{
			Level:  program.LevelExercise,
			Source: program.Position{ContainerKey: program.ExerciseContainerKey("w1", "d1"), Index: 0},
		}},
		{"stale container", program.Move{
			Level:       program.LevelDay,
			Source:      program.Position{ContainerKey: program.DayContainerKey("gone"), Index: 0},
			Destination: &program.Position{ContainerKey: program.DayContainerKey("w1"), Index: 0},
		}},
		{"identity", program.Move{
			Level:       program.LevelWeek,
			Source:      program.Position{ContainerKey: program.WeekContainerKey(), Index: 1},
			Destination: &program.Position{ContainerKey: program.WeekContainerKey(), Index: 1},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.svc.Reorder(context.Background(), f.coachID, created.ID, tc.mv)
			require.NoError(t, err, "A no-op move is not an error")
			assert.Equal(t, "e1", got.Weeks[0].Days[0].Exercises[0].ID, "Tree should be unchanged")
		})
	}

	assert.Equal(t, baseline, f.notifier.count(), "No-op moves should not signal tree changes")
	assert.Equal(t, updatesBefore, f.workoutRepo.updates, "No-op moves should not write")
}

func TestWorkoutOwnershipEnforced(t *testing.T) {
	f := newWorkoutFixture()
	created, err := f.svc.Create(context.Background(), f.coachID, programWithTwoWeeks())
	require.NoError(t, err)

	otherCoach := primitive.NewObjectID()
	_, err = f.svc.GetByID(context.Background(), otherCoach, created.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound, "Another coach's workout should read as missing")

	err = f.svc.Delete(context.Background(), otherCoach, created.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound, "Another coach should not be able to delete")

	_, err = f.svc.Reorder(context.Background(), otherCoach, created.ID, program.Move{
		Level:       program.LevelWeek,
		Source:      program.Position{ContainerKey: program.WeekContainerKey(), Index: 0},
		Destination: &program.Position{ContainerKey: program.WeekContainerKey(), Index: 1},
	})
	assert.ErrorIs(t, err, ErrWorkoutNotFound, "Another coach should not be able to reorder")
}

func TestWorkoutRenderPDFUsesDefaultProfile(t *testing.T) {
	f := newWorkoutFixture()
	_, err := f.profileRepo.Create(context.Background(), &domain.CoachProfile{
		CoachID:   f.coachID,
		Name:      "Coach Casey",
		IsDefault: true,
	})
	require.NoError(t, err)

	created, err := f.svc.Create(context.Background(), f.coachID, programWithTwoWeeks())
	require.NoError(t, err)

	out, err := f.svc.RenderPDF(context.Background(), f.coachID, created.ID, primitive.NilObjectID)
	require.NoError(t, err, "Rendering with the default profile should succeed")
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "Output should be a PDF document")
}

func TestWorkoutRenderPDFRejectsForeignProfile(t *testing.T) {
	f := newWorkoutFixture()
	foreignProfileID, err := f.profileRepo.Create(context.Background(), &domain.CoachProfile{
		CoachID: primitive.NewObjectID(),
		Name:    "Someone Else",
	})
	require.NoError(t, err)

	created, err := f.svc.Create(context.Background(), f.coachID, programWithTwoWeeks())
	require.NoError(t, err)

	_, err = f.svc.RenderPDF(context.Background(), f.coachID, created.ID, foreignProfileID)
	assert.ErrorIs(t, err, ErrAccessDenied, "A foreign branding profile must not be usable")
}
