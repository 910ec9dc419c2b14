package usecase

import (
	"context"
	"sync"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// store is an in-memory stand-in for all repositories. Conditional writes are atomic
// under the mutex, the way the database makes them atomic.
type store struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	courses     map[uuid.UUID]*domain.Course
	purchases   map[uuid.UUID]*domain.Purchase
	enrollments map[string][]uuid.UUID
	students    map[uuid.UUID][]string
	ratings     map[uuid.UUID]map[string]int
	lectures    map[string][]string
	writes      int
}

func newStore() *store {
	return &store{
		users:       map[string]*domain.User{},
		courses:     map[uuid.UUID]*domain.Course{},
		purchases:   map[uuid.UUID]*domain.Purchase{},
		enrollments: map[string][]uuid.UUID{},
		students:    map[uuid.UUID][]string{},
		ratings:     map[uuid.UUID]map[string]int{},
		lectures:    map[string][]string{},
	}
}

func (s *store) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *store) purchase(id uuid.UUID) domain.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.purchases[id]
}

func (s *store) enrolledCourses(userID string) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.enrollments[userID]...)
}

func (s *store) courseStudents(courseID uuid.UUID) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.students[courseID]...)
}

type purchaseRepo struct{ *store }

func (r purchaseRepo) Create(_ context.Context, p *domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	cp := *p
	r.purchases[p.ID] = &cp
	return nil
}

func (r purchaseRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrNotFound, "purchase %s", id)
	}
	cp := *p
	return &cp, nil
}

func (r purchaseRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to domain.PurchaseStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok || p.Status != from {
		return false, nil
	}
	r.writes++
	p.Status = to
	return true, nil
}

type userRepo struct{ *store }

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrNotFound, "user %s", id)
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) Upsert(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	delete(r.users, id)
	return nil
}

func (r userRepo) AppendEnrollment(_ context.Context, userID string, courseID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.enrollments[userID] {
		if id == courseID {
			return false, nil
		}
	}
	r.writes++
	r.enrollments[userID] = append(r.enrollments[userID], courseID)
	return true, nil
}

func (r userRepo) HasEnrollment(_ context.Context, userID string, courseID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.enrollments[userID] {
		if id == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r userRepo) EnrolledCourses(_ context.Context, userID string) ([]domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Course
	for _, id := range r.enrollments[userID] {
		if c, ok := r.courses[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

type courseRepo struct{ *store }

func (r courseRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrNotFound, "course %s", id)
	}
	cp := *c
	return &cp, nil
}

func (r courseRepo) AppendStudent(_ context.Context, courseID uuid.UUID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.students[courseID] {
		if id == userID {
			return false, nil
		}
	}
	r.writes++
	r.students[courseID] = append(r.students[courseID], userID)
	return true, nil
}

func (r courseRepo) UpsertRating(_ context.Context, rating *domain.CourseRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.ratings[rating.CourseID] == nil {
		r.ratings[rating.CourseID] = map[string]int{}
	}
	r.ratings[rating.CourseID][rating.UserID] = rating.Rating
	return nil
}

func (r courseRepo) StudentIDs(_ context.Context, courseID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.students[courseID]...), nil
}

func (r courseRepo) Ratings(_ context.Context, courseID uuid.UUID) ([]domain.CourseRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CourseRating
	for userID, rating := range r.ratings[courseID] {
		out = append(out, domain.CourseRating{CourseID: courseID, UserID: userID, Rating: rating})
	}
	return out, nil
}

type progressRepo struct{ *store }

func progressKey(userID string, courseID uuid.UUID) string {
	return userID + "/" + courseID.String()
}

func (r progressRepo) AddCompletedLecture(_ context.Context, userID string, courseID uuid.UUID, lectureID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := progressKey(userID, courseID)
	for _, id := range r.lectures[key] {
		if id == lectureID {
			return false, nil
		}
	}
	r.writes++
	r.lectures[key] = append(r.lectures[key], lectureID)
	return true, nil
}

func (r progressRepo) Get(_ context.Context, userID string, courseID uuid.UUID) (*domain.CourseProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := append([]string{}, r.lectures[progressKey(userID, courseID)]...)
	return &domain.CourseProgress{UserID: userID, CourseID: courseID, LectureCompleted: ids}, nil
}

// fakeGateway resolves payment intents from a fixed table.
type fakeGateway struct {
	mu        sync.Mutex
	intents   map[string]uuid.UUID
	sessions  []domain.CheckoutRequest
	createErr error
	lookupErr error
	lookups   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: map[string]uuid.UUID{}}
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.sessions = append(g.sessions, req)
	return &domain.CheckoutSession{ID: "cs_" + req.PurchaseID.String(), URL: "https://checkout.test/" + req.PurchaseID.String()}, nil
}

func (g *fakeGateway) PurchaseIDForPaymentIntent(_ context.Context, paymentIntentID string) (uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups++
	if g.lookupErr != nil {
		return uuid.Nil, g.lookupErr
	}
	id, ok := g.intents[paymentIntentID]
	if !ok {
		return uuid.Nil, errors.Wrapf(domain.ErrStaleReference, "no session for %s", paymentIntentID)
	}
	return id, nil
}
