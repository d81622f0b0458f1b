package memory

import (
	"context"
	"sync"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/repository"
)

type dataset struct {
	users         *table[domain.User]
	clubs         *table[domain.Club]
	events        *table[domain.Event]
	memberships   *table[domain.Membership]        // keyed by pairKey(user, club)
	registrations *table[domain.EventRegistration] // keyed by pairKey(user, event)
	joinRequests  *table[domain.JoinRequest]
	notifications *table[domain.Notification]
	approvals     *table[domain.Approval] // keyed by event id
	reports       *table[domain.Report]
}

func newDataset() *dataset {
	return &dataset{
		users:         newTable[domain.User](),
		clubs:         newTable[domain.Club](),
		events:        newTable[domain.Event](),
		memberships:   newTable[domain.Membership](),
		registrations: newTable[domain.EventRegistration](),
		joinRequests:  newTable[domain.JoinRequest](),
		notifications: newTable[domain.Notification](),
		approvals:     newTable[domain.Approval](),
		reports:       newTable[domain.Report](),
	}
}

func (d *dataset) attach(j *journal) {
	d.users.journal = j
	d.clubs.journal = j
	d.events.journal = j
	d.memberships.journal = j
	d.registrations.journal = j
	d.joinRequests.journal = j
	d.notifications.journal = j
	d.approvals.journal = j
	d.reports.journal = j
}

func pairKey(a, b string) string {
	return a + "\x00" + b
}

type accessor interface {
	read(fn func(d *dataset) error) error
	write(fn func(d *dataset) error) error
}

// view binds the repositories to an accessor: the live store or a transaction.
type view struct {
	acc   accessor
	runTx func(ctx context.Context, fn func(tx repository.Store) error) error
}

func (v *view) Users() repository.UserRepository {
	return &userRepo{acc: v.acc}
}

func (v *view) Clubs() repository.ClubRepository {
	return &clubRepo{acc: v.acc}
}

func (v *view) Events() repository.EventRepository {
	return &eventRepo{acc: v.acc}
}

func (v *view) Memberships() repository.MembershipRepository {
	return &membershipRepo{acc: v.acc}
}

func (v *view) Registrations() repository.RegistrationRepository {
	return &registrationRepo{acc: v.acc}
}

func (v *view) JoinRequests() repository.JoinRequestRepository {
	return &joinRequestRepo{acc: v.acc}
}

func (v *view) Notifications() repository.NotificationRepository {
	return &notificationRepo{acc: v.acc}
}

func (v *view) Approvals() repository.ApprovalRepository {
	return &approvalRepo{acc: v.acc}
}

func (v *view) Reports() repository.ReportRepository {
	return &reportRepo{acc: v.acc}
}

func (v *view) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return v.runTx(ctx, fn)
}

// Store is the in-process Entity Store. All state lives in memory and is lost
// when the process exits.
type Store struct {
	*view
	mu   sync.RWMutex
	data *dataset
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	s := &Store{data: newDataset()}
	s.view = &view{acc: s, runTx: s.runInTx}
	return s
}

func (s *Store) read(fn func(d *dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(fn func(d *dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// runInTx holds the write lock for the whole callback. Writes go straight to
// the live dataset and are undone from the journal unless fn succeeds, so a
// transaction costs only what it writes.
func (s *Store) runInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	j := &journal{}
	s.data.attach(j)
	committed := false
	defer func() {
		if !committed {
			j.rollback()
		}
		s.data.attach(nil)
	}()

	txView := &view{acc: &txAccessor{data: s.data}}
	txView.runTx = func(_ context.Context, inner func(repository.Store) error) error {
		return inner(txView)
	}
	if err := fn(txView); err != nil {
		return err
	}
	committed = true
	return nil
}

type txAccessor struct {
	data *dataset
}

func (t *txAccessor) read(fn func(d *dataset) error) error {
	return fn(t.data)
}

func (t *txAccessor) write(fn func(d *dataset) error) error {
	return fn(t.data)
}
