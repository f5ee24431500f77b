package services

import (
	"context"
	"fmt"
	"time"

	"eventplanner/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int

	createErr error
	listErr   error
	countErr  error

	deleted []string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	if _, ok := f.byID[e.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	f.byID[e.ID] = e
	return e, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeEventRepo) CountPublicByCreator(ctx context.Context, creatorID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, e := range f.byID {
		if e.CreatorID == creatorID && e.State == domain.EventStatePublic {
			n++
		}
	}
	return n, nil
}

func (f *fakeEventRepo) ListPublic(ctx context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if e.State == domain.EventStatePublic {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListVisibleTo(ctx context.Context, viewerID string) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if e.State == domain.EventStatePublic || e.State == domain.EventStatePrivate || e.CreatorID == viewerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListAll(ctx context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Event
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) ListByStartDateRange(ctx context.Context, start, end time.Time) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if !e.StartDate.Before(start) && e.StartDate.Before(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeSubscriptionRepo is an in-memory SubscriptionRepository for tests.
type fakeSubscriptionRepo struct {
	subs   []*domain.Subscription
	nextID int

	createErr error
	listErr   error
	deleteErr error

	deletedEvents []string
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{nextID: 1}
}

func (f *fakeSubscriptionRepo) add(s *domain.Subscription) *domain.Subscription {
	if s.ID == "" {
		s.ID = fmt.Sprintf("sub-%d", f.nextID)
		f.nextID++
	}
	f.subs = append(f.subs, s)
	return s
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(s)
	return nil
}

func (f *fakeSubscriptionRepo) ListBySubscriberID(ctx context.Context, subscriberID string) ([]*domain.Subscription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Subscription
	for _, s := range f.subs {
		if s.SubscriberID == subscriberID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Subscription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Subscription
	for _, s := range f.subs {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) GetByEventAndSubscriber(ctx context.Context, eventID, subscriberID string) (*domain.Subscription, error) {
	for _, s := range f.subs {
		if s.EventID == eventID && s.SubscriberID == subscriberID {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSubscriptionRepo) DeleteAllForEvent(ctx context.Context, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	var kept []*domain.Subscription
	for _, s := range f.subs {
		if s.EventID != eventID {
			kept = append(kept, s)
		}
	}
	f.subs = kept
	f.deletedEvents = append(f.deletedEvents, eventID)
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int

	createErr  error
	sessionErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", f.nextID)
		f.nextID++
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateSessionToken(ctx context.Context, userID string, token *string) error {
	if f.sessionErr != nil {
		return f.sessionErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SessionToken = token
	return nil
}

func (f *fakeUserRepo) UpdateConnectionID(ctx context.Context, userID string, connectionID *string) error {
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ConnectionID = connectionID
	return nil
}

// fakePushSender records sends. Users in connected receive deliveries; users
// in failing return an error; everyone else is treated as offline.
type fakePushSender struct {
	connected map[string]bool
	failing   map[string]error

	sent []fakePush
}

type fakePush struct {
	userID  string
	payload any
}

func newFakePushSender(connected ...string) *fakePushSender {
	m := make(map[string]bool, len(connected))
	for _, id := range connected {
		m[id] = true
	}
	return &fakePushSender{connected: m, failing: make(map[string]error)}
}

func (f *fakePushSender) Send(userID string, payload any) (bool, error) {
	if err := f.failing[userID]; err != nil {
		return false, err
	}
	if !f.connected[userID] {
		return false, nil
	}
	f.sent = append(f.sent, fakePush{userID: userID, payload: payload})
	return true, nil
}

// fakeHasher avoids bcrypt cost in unit tests.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeTokenIssuer issues predictable tokens.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

// fakeEmailService records sent emails.
type fakeEmailService struct {
	welcome   []*domain.WelcomeMessageEmailData
	confirmed []*domain.SubscriptionConfirmedEmailData
	err       error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.welcome = append(f.welcome, data)
	return nil
}

func (f *fakeEmailService) SendSubscriptionConfirmed(ctx context.Context, data *domain.SubscriptionConfirmedEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.confirmed = append(f.confirmed, data)
	return nil
}
