package service

import (
	"context"
	"sync"
	"time"

	"fittracker/server/internal/domain"
	"fittracker/server/internal/payment"
	"fittracker/server/internal/repository"
	"fittracker/server/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the mongo implementations'
// behavior closely enough for service tests: generated IDs, timestamps on
// create, ErrNotFound on misses and coach-scoped deletes.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	u := *user
	u.ID = id
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[id] = &u
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id primitive.ObjectID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) SetBillingState(_ context.Context, id primitive.ObjectID, stripeCustomerID string, isPaid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.StripeCustomerID = stripeCustomerID
	u.IsPaid = isPaid
	u.UpdatedAt = time.Now()
	return nil
}

type fakeWorkoutRepo struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]*domain.Workout
	updates  int
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: map[primitive.ObjectID]*domain.Workout{}}
}

func (r *fakeWorkoutRepo) Create(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *w
	cp.ID = id
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.workouts[id] = &cp
	return id, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWorkoutRepo) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Workout
	for _, w := range r.workouts {
		if w.CoachID == coachID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWorkoutRepo) Update(_ context.Context, w *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workouts[w.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *w
	r.workouts[w.ID] = &cp
	r.updates++
	return nil
}

func (r *fakeWorkoutRepo) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

func (r *fakeWorkoutRepo) ReplaceAllForCoach(_ context.Context, coachID primitive.ObjectID, workouts []domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, w := range r.workouts {
		if w.CoachID == coachID {
			delete(r.workouts, id)
		}
	}
	for i := range workouts {
		cp := workouts[i]
		r.workouts[cp.ID] = &cp
	}
	return nil
}

type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[primitive.ObjectID]*domain.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[primitive.ObjectID]*domain.Client{}}
}

func (r *fakeClientRepo) Create(_ context.Context, c *domain.Client) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *c
	cp.ID = id
	cp.CreatedAt = time.Now()
	r.clients[id] = &cp
	return id, nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Client
	for _, c := range r.clients {
		if c.CoachID == coachID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) Update(_ context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok || c.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) ReplaceAllForCoach(_ context.Context, coachID primitive.ObjectID, clients []domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		if c.CoachID == coachID {
			delete(r.clients, id)
		}
	}
	for i := range clients {
		cp := clients[i]
		r.clients[cp.ID] = &cp
	}
	return nil
}

type fakeGlossaryRepo struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]*domain.GlossaryEntry
}

func newFakeGlossaryRepo() *fakeGlossaryRepo {
	return &fakeGlossaryRepo{entries: map[primitive.ObjectID]*domain.GlossaryEntry{}}
}

func (r *fakeGlossaryRepo) Create(_ context.Context, e *domain.GlossaryEntry) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *e
	cp.ID = id
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.entries[id] = &cp
	return id, nil
}

func (r *fakeGlossaryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.GlossaryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeGlossaryRepo) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.GlossaryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.GlossaryEntry
	for _, e := range r.entries {
		if e.CoachID == coachID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeGlossaryRepo) Update(_ context.Context, e *domain.GlossaryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *fakeGlossaryRepo) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]*domain.CoachProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[primitive.ObjectID]*domain.CoachProfile{}}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *domain.CoachProfile) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *p
	cp.ID = id
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.profiles[id] = &cp
	return id, nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CoachProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetDefault(_ context.Context, coachID primitive.ObjectID) (*domain.CoachProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.CoachID == coachID && p.IsDefault {
			cp := *p
			return &cp, nil
		}
	}
	for _, p := range r.profiles {
		if p.CoachID == coachID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProfileRepo) Update(_ context.Context, p *domain.CoachProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) Replace(_ context.Context, coachID primitive.ObjectID, p *domain.CoachProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.profiles {
		if existing.CoachID == coachID {
			delete(r.profiles, id)
		}
	}
	if p == nil {
		return nil
	}
	cp := *p
	cp.ID = primitive.NewObjectID()
	cp.CoachID = coachID
	cp.IsDefault = true
	r.profiles[cp.ID] = &cp
	return nil
}

// fakeNotifier records tree-change signals.
type fakeNotifier struct {
	mu      sync.Mutex
	changes []primitive.ObjectID
}

func (n *fakeNotifier) TreeChanged(coachID primitive.ObjectID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, coachID)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.changes)
}

// fakeMailer records the last reset mail instead of sending it.
type fakeMailer struct {
	mu           sync.Mutex
	lastTo       string
	lastResetURL string
	sends        int
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTo = to
	m.lastResetURL = resetURL
	m.sends++
	return nil
}

// fakeStorage keeps objects in a map.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) UploadObject(_ context.Context, objectKey, _ string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(body))
	copy(cp, body)
	s.objects[objectKey] = cp
	return nil
}

func (s *fakeStorage) DownloadObject(_ context.Context, objectKey string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[objectKey]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	cp := make([]byte, len(body))
	copy(cp, body)
	return cp, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	return nil
}

func (s *fakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

// fakeCheckout simulates the hosted checkout provider.
type fakeCheckout struct {
	paid        bool
	lastName    string
	lastPriceID string
}

func (f *fakeCheckout) CreateCheckoutSession(_ context.Context, email, customerName, priceID string) (*payment.CheckoutSession, error) {
	f.lastName = customerName
	f.lastPriceID = priceID
	return &payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1?email=" + email}, nil
}

func (f *fakeCheckout) ConfirmSubscription(_ context.Context, sessionID string) (*payment.SubscriptionResult, error) {
	return &payment.SubscriptionResult{
		CustomerID:    "cus_test_1",
		CustomerEmail: "coach@example.com",
		CustomerName:  f.lastName,
		Paid:          f.paid,
	}, nil
}
