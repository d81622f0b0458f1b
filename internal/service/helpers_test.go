package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/repository"
	"clubhub-backend/internal/repository/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingDeliverer struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (d *recordingDeliverer) Name() string { return "recording" }

func (d *recordingDeliverer) Deliver(ctx context.Context, n domain.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notes = append(d.notes, n)
	return nil
}

func (d *recordingDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.notes)
}

type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Name() string { return "mock" }

func (m *MockDeliverer) Deliver(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type fixture struct {
	store     *memory.Store
	delivered *recordingDeliverer

	notes    NotificationService
	clubs    ClubService
	events   EventService
	members  MembershipService
	regs     RegistrationService
	requests JoinRequestService
	reports  ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	delivered := &recordingDeliverer{}
	notes := NewNotificationService(store, nil, delivered)
	return &fixture{
		store:     store,
		delivered: delivered,
		notes:     notes,
		clubs:     NewClubService(store, notes, nil),
		events:    NewEventService(store, notes, nil),
		members:   NewMembershipService(store, notes),
		regs:      NewRegistrationService(store, notes, false),
		requests:  NewJoinRequestService(store, notes),
		reports:   NewReportService(store),
	}
}

func (f *fixture) user(t *testing.T, id string, role domain.UserRole) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Username: id, Email: id + "@campus.edu", Role: role}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) club(t *testing.T, id, leaderID string, status domain.Status) *domain.Club {
	t.Helper()
	c := &domain.Club{ID: id, Name: "Club " + id, Description: "d", Category: "c", LeaderID: leaderID, Status: status}
	require.NoError(t, f.store.Clubs().Create(context.Background(), c))
	return c
}

func (f *fixture) event(t *testing.T, id, clubID, createdBy string, status domain.Status, start time.Time) *domain.Event {
	t.Helper()
	e := &domain.Event{ID: id, ClubID: clubID, Title: "Event " + id, Location: "Hall", StartDate: start,
		EndDate: start.Add(time.Hour), Status: status, CreatedBy: createdBy}
	require.NoError(t, f.store.Events().Create(context.Background(), e))
	require.NoError(t, f.store.Approvals().Create(context.Background(), &domain.Approval{ID: "ap-" + id, EventID: id, Status: status}))
	return e
}

func (f *fixture) inbox(t *testing.T, userID string) []string {
	t.Helper()
	notes, err := f.store.Notifications().ListByUser(context.Background(), userID)
	require.NoError(t, err)
	msgs := make([]string, 0, len(notes))
	for _, n := range notes {
		msgs = append(msgs, n.Message)
	}
	return msgs
}

func (f *fixture) totalNotifications(t *testing.T) int {
	t.Helper()
	notes, err := f.store.Notifications().ListUnread(context.Background())
	require.NoError(t, err)
	return len(notes)
}

// freezeClock pins the service clock for the duration of the test.
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

// brokenInboxStore fails every notification write, inside and outside transactions.
type brokenInboxStore struct {
	repository.Store
}

func (s brokenInboxStore) Notifications() repository.NotificationRepository {
	return brokenNotifications{s.Store.Notifications()}
}

func (s brokenInboxStore) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.RunInTx(ctx, func(tx repository.Store) error {
		return fn(brokenInboxStore{tx})
	})
}

type brokenNotifications struct {
	repository.NotificationRepository
}

func (brokenNotifications) Create(ctx context.Context, n *domain.Notification) error {
	return errors.New("inbox unavailable")
}
