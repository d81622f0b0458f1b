package repository

import (
	"context"

	"clubhub-backend/internal/domain"
)

// Lookups return an error wrapping domain.ErrNotFound when the id does not
// resolve. Creates return one wrapping domain.ErrAlreadyExists when a
// uniqueness rule is violated.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type ClubRepository interface {
	Create(ctx context.Context, club *domain.Club) error
	GetByID(ctx context.Context, id string) (*domain.Club, error)
	Update(ctx context.Context, club *domain.Club) error
	// UpdateStatus moves the club from one status to another and fails with
	// domain.ErrInvalidTransition when it is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) error
	List(ctx context.Context) ([]domain.Club, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Club, error)
	ListByLeader(ctx context.Context, leaderID string) ([]domain.Club, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) error
	List(ctx context.Context) ([]domain.Event, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Event, error)
	ListByClub(ctx context.Context, clubID string) ([]domain.Event, error)
}

type MembershipRepository interface {
	Create(ctx context.Context, m *domain.Membership) error
	Get(ctx context.Context, userID, clubID string) (*domain.Membership, error)
	Delete(ctx context.Context, userID, clubID string) error
	ListByClub(ctx context.Context, clubID string) ([]domain.Membership, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Membership, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, r *domain.EventRegistration) error
	Get(ctx context.Context, userID, eventID string) (*domain.EventRegistration, error)
	Delete(ctx context.Context, userID, eventID string) error
	ListByEvent(ctx context.Context, eventID string) ([]domain.EventRegistration, error)
	ListByUser(ctx context.Context, userID string) ([]domain.EventRegistration, error)
	CountByEvent(ctx context.Context, eventID string) (int32, error)
}

type JoinRequestRepository interface {
	Create(ctx context.Context, req *domain.JoinRequest) error
	GetByID(ctx context.Context, id string) (*domain.JoinRequest, error)
	Find(ctx context.Context, userID, clubID string) (*domain.JoinRequest, error)
	Delete(ctx context.Context, id string) error
	ListByClub(ctx context.Context, clubID string) ([]domain.JoinRequest, error)
	List(ctx context.Context) ([]domain.JoinRequest, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	ListUnread(ctx context.Context) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}

type ApprovalRepository interface {
	Create(ctx context.Context, a *domain.Approval) error
	GetByEventID(ctx context.Context, eventID string) (*domain.Approval, error)
	Update(ctx context.Context, a *domain.Approval) error
}

type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) error
	ListByClub(ctx context.Context, clubID string) ([]domain.Report, error)
}

// Store is the Entity Store. Repositories obtained from the Store passed to a
// RunInTx callback see and write the transaction's state; the callback's
// writes are applied together when it returns nil and discarded otherwise.
type Store interface {
	Users() UserRepository
	Clubs() ClubRepository
	Events() EventRepository
	Memberships() MembershipRepository
	Registrations() RegistrationRepository
	JoinRequests() JoinRequestRepository
	Notifications() NotificationRepository
	Approvals() ApprovalRepository
	Reports() ReportRepository

	RunInTx(ctx context.Context, fn func(tx Store) error) error
}
