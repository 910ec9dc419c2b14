package usecase

import (
	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type fixture struct {
	st         *store
	gw         *fakeGateway
	purchase   *PurchaseUseCase
	reconciler *Reconciler
	dispatcher *Dispatcher
	identity   *IdentityUseCase
	learner    *LearnerUseCase
}

func newFixture() *fixture {
	st := newStore()
	gw := newFakeGateway()
	log := zerolog.Nop()

	pr, ur, cr := purchaseRepo{st}, userRepo{st}, courseRepo{st}
	rec := NewReconciler(pr, ur, cr, log)
	return &fixture{
		st:         st,
		gw:         gw,
		purchase:   NewPurchaseUseCase(pr, ur, cr, gw, RedirectConfig{FrontendURL: "https://shop.example/"}, log),
		reconciler: rec,
		dispatcher: NewDispatcher(gw, rec, log),
		identity:   NewIdentityUseCase(ur, log),
		learner:    NewLearnerUseCase(ur, cr, progressRepo{st}, log),
	}
}

func (f *fixture) seedUser(id string) {
	f.st.users[id] = &domain.User{ID: id, Email: id + "@example.com", Name: id}
}

func (f *fixture) seedCourse(price string, discount int) *domain.Course {
	c := &domain.Course{
		ID:          uuid.New(),
		Title:       "Course " + price,
		Price:       decimal.RequireFromString(price),
		Discount:    discount,
		IsPublished: true,
	}
	f.st.courses[c.ID] = c
	return c
}

// seedPending stores a pending purchase and makes paymentIntent resolve to it.
func (f *fixture) seedPending(userID string, courseID uuid.UUID, paymentIntent string) uuid.UUID {
	id := uuid.New()
	f.st.purchases[id] = &domain.Purchase{
		ID:       id,
		CourseID: courseID,
		UserID:   userID,
		Amount:   decimal.NewFromInt(10),
		Status:   domain.PurchasePending,
	}
	f.gw.intents[paymentIntent] = id
	return id
}

func succeeded(paymentIntent string) *domain.PaymentEvent {
	return &domain.PaymentEvent{ID: "evt_ok_" + paymentIntent, Type: domain.EventPaymentSucceeded, PaymentIntentID: paymentIntent}
}

func failed(paymentIntent string) *domain.PaymentEvent {
	return &domain.PaymentEvent{
		ID:              "evt_fail_" + paymentIntent,
		Type:            domain.EventPaymentFailed,
		PaymentIntentID: paymentIntent,
		FailureMessage:  "Your card was declined.",
	}
}
