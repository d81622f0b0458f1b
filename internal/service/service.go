package service

import (
	"context"
	"fmt"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/repository"
)

// ClubInput carries the editable descriptive fields of a club.
type ClubInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"required,max=2000"`
	Category    string `json:"category" validate:"required,max=60"`
	Logo        string `json:"logo" validate:"omitempty,url"`
}

// EventInput carries the editable descriptive fields of an event.
type EventInput struct {
	Title       string    `json:"title" validate:"required,max=160"`
	Description string    `json:"description" validate:"max=4000"`
	Location    string    `json:"location" validate:"required,max=200"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Capacity    *int32    `json:"capacity" validate:"omitempty,gt=0"`
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=2,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// BootstrapUser is a user provisioned from configuration at startup.
type BootstrapUser struct {
	Username string          `json:"username" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	Role     domain.UserRole `json:"role" validate:"required,oneof=student club_leader administrator"`
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// JoinResult holds exactly one of Membership or Request.
type JoinResult struct {
	Membership *domain.Membership
	Request    *domain.JoinRequest
}

type LogoUpload struct {
	UploadURL string
	Key       string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (*TokenPair, error)
}

type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	RegisterDevice(ctx context.Context, userID, deviceToken string) error
	EnsureUser(ctx context.Context, u BootstrapUser) (*domain.User, error)
}

type NotificationService interface {
	// Notify writes one notification and delivers it.
	Notify(ctx context.Context, userID, message string) (*domain.Notification, error)
	CreateNotification(ctx context.Context, actorID, userID, message string) (*domain.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	// Dispatch hands already committed notifications to the deliverers.
	Dispatch(ctx context.Context, notes []domain.Notification)
}

type MembershipService interface {
	Join(ctx context.Context, userID, clubID string) (*JoinResult, error)
	Leave(ctx context.Context, userID, clubID string) error
	MembersOf(ctx context.Context, clubID string) ([]domain.Membership, error)
	ClubsOf(ctx context.Context, userID string) ([]domain.Club, error)
	IsMember(ctx context.Context, userID, clubID string) (bool, error)
}

type RegistrationService interface {
	Register(ctx context.Context, userID, eventID string) (*domain.EventRegistration, error)
	Unregister(ctx context.Context, userID, eventID string) error
	AttendeesOf(ctx context.Context, eventID string) ([]domain.EventRegistration, error)
	EventsOf(ctx context.Context, userID string) ([]domain.Event, error)
	IsRegistered(ctx context.Context, userID, eventID string) (bool, error)
	AttendeeCount(ctx context.Context, eventID string) (int32, error)
}

type ClubService interface {
	CreateClub(ctx context.Context, actorID string, in ClubInput) (*domain.Club, error)
	UpdateClub(ctx context.Context, actorID, clubID string, in ClubInput) (*domain.Club, error)
	ApproveClub(ctx context.Context, actorID, clubID, comment string) (*domain.Club, error)
	RejectClub(ctx context.Context, actorID, clubID, comment string) (*domain.Club, error)
	GetClub(ctx context.Context, id string) (*domain.Club, error)
	ListClubs(ctx context.Context) ([]domain.Club, error)
	ListPendingClubs(ctx context.Context) ([]domain.Club, error)
	ListClubsOf(ctx context.Context, userID string) ([]domain.Club, error)
}

type EventService interface {
	CreateEvent(ctx context.Context, actorID, clubID string, in EventInput) (*domain.Event, error)
	UpdateEvent(ctx context.Context, actorID, eventID string, in EventInput) (*domain.Event, error)
	ApproveEvent(ctx context.Context, actorID, eventID, comment string) (*domain.Event, error)
	RejectEvent(ctx context.Context, actorID, eventID, comment string) (*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	ListPendingEvents(ctx context.Context) ([]domain.Event, error)
	ListClubEvents(ctx context.Context, clubID string) ([]domain.Event, error)
	GetApproval(ctx context.Context, eventID string) (*domain.Approval, error)
}

type JoinRequestService interface {
	Resolve(ctx context.Context, actorID, requestID string, approved bool) (*domain.Membership, error)
	ListForClub(ctx context.Context, actorID, clubID string) ([]domain.JoinRequest, error)
}

type ReportService interface {
	GenerateReport(ctx context.Context, actorID, clubID string, reportType domain.ReportType) (*domain.Report, error)
	ListClubReports(ctx context.Context, actorID, clubID string) ([]domain.Report, error)
}

type LogoService interface {
	RequestLogoUpload(ctx context.Context, actorID, clubID, contentType string) (*LogoUpload, error)
	ConfirmLogoUpload(ctx context.Context, actorID, clubID, key string) (*domain.Club, error)
	RemoveLogo(ctx context.Context, actorID, clubID string) (*domain.Club, error)
}

type EmailService interface {
	SendNotificationDigest(ctx context.Context, toEmail, username string, messages []string) error
}

// now is the service clock; tests replace it.
var now = func() time.Time { return time.Now().UTC() }

// loadActor re-reads the acting user so role changes take effect immediately.
func loadActor(ctx context.Context, users repository.UserRepository, actorID string) (*domain.User, error) {
	if actorID == "" {
		return nil, fmt.Errorf("missing acting user: %w", domain.ErrNotAuthorized)
	}
	actor, err := users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting user: %w", err)
	}
	return actor, nil
}
