package backup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSchedulerDebouncesBursts(t *testing.T) {
	var exports atomic.Int32
	s := NewScheduler(20*time.Millisecond, func(ctx context.Context, coachID primitive.ObjectID) error {
		exports.Add(1)
		return nil
	})
	defer s.Stop()

	coach := primitive.NewObjectID()
	for i := 0; i < 5; i++ {
		s.TreeChanged(coach)
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), exports.Load(), "a burst of edits should export once")
}

func TestSchedulerPerCoachTimers(t *testing.T) {
	var exports atomic.Int32
	s := NewScheduler(10*time.Millisecond, func(ctx context.Context, coachID primitive.ObjectID) error {
		exports.Add(1)
		return nil
	})
	defer s.Stop()

	s.TreeChanged(primitive.NewObjectID())
	s.TreeChanged(primitive.NewObjectID())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(2), exports.Load(), "distinct coaches debounce independently")
}

func TestSchedulerPause(t *testing.T) {
	var exports atomic.Int32
	s := NewScheduler(5*time.Millisecond, func(ctx context.Context, coachID primitive.ObjectID) error {
		exports.Add(1)
		return nil
	})
	defer s.Stop()

	s.Pause()
	s.TreeChanged(primitive.NewObjectID())
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), exports.Load(), "no exports while paused")

	coach := primitive.NewObjectID()
	s.Resume()
	s.TreeChanged(coach)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), exports.Load())
}

func TestSchedulerPauseCancelsPendingTimer(t *testing.T) {
	var exports atomic.Int32
	s := NewScheduler(20*time.Millisecond, func(ctx context.Context, coachID primitive.ObjectID) error {
		exports.Add(1)
		return nil
	})
	defer s.Stop()

	coach := primitive.NewObjectID()
	s.TreeChanged(coach)
	s.Pause()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), exports.Load(), "a timer armed before Pause must not fire while paused")

	s.Resume()
	s.TreeChanged(coach)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), exports.Load(), "exports resume after the paused window")
}

func TestSchedulerStopCancelsPending(t *testing.T) {
	var exports atomic.Int32
	s := NewScheduler(20*time.Millisecond, func(ctx context.Context, coachID primitive.ObjectID) error {
		exports.Add(1)
		return nil
	})

	s.TreeChanged(primitive.NewObjectID())
	s.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), exports.Load())
}
