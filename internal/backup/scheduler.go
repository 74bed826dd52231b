package backup

import (
	"context"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const exportTimeout = 30 * time.Second

// ExportFunc pushes the coach's current data to the cloud blob.
type ExportFunc func(ctx context.Context, coachID primitive.ObjectID) error

// Scheduler debounces auto-backups: every tree-changed notification
// restarts the coach's quiet-interval timer, so only the last edit in a
// burst triggers an export (cancel-on-supersede).
type Scheduler struct {
	mu     sync.Mutex
	delay  time.Duration
	export ExportFunc
	timers map[primitive.ObjectID]*time.Timer
	paused bool
}

// NewScheduler creates a scheduler that runs export after delay of
// inactivity per coach.
func NewScheduler(delay time.Duration, export ExportFunc) *Scheduler {
	return &Scheduler{
		delay:  delay,
		export: export,
		timers: make(map[primitive.ObjectID]*time.Timer),
	}
}

// TreeChanged records a mutation of the coach's data and (re)schedules the
// debounced export. Implements the workout service's change notification.
func (s *Scheduler) TreeChanged(coachID primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	if t, ok := s.timers[coachID]; ok {
		t.Stop()
	}
	s.timers[coachID] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.timers, coachID)
		paused := s.paused
		s.mu.Unlock()
		// A timer armed before Pause may still fire during the paused
		// window; it must not export half-applied restore state.
		if paused {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		if err := s.export(ctx, coachID); err != nil {
			log.Printf("ERROR: Auto-backup export failed for coach %s: %v", coachID.Hex(), err)
		}
	})
}

// Pause suppresses scheduling and cancels any pending timers. Used during
// restore so the import itself does not trigger a backup of half-applied
// state.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Resume re-enables scheduling after a Pause.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
}

// Stop cancels all pending exports. Called on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
