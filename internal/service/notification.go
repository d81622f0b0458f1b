package service

import (
	"context"
	"fmt"
	"strings"

	"clubhub-backend/internal/authz"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/metrics"
	"clubhub-backend/internal/repository"

	"github.com/google/uuid"
)

// Deliverer pushes a stored notification to a live channel. Failures are
// logged by the caller and never fail the command that produced it.
type Deliverer interface {
	Name() string
	Deliver(ctx context.Context, n domain.Notification) error
}

type notificationService struct {
	store      repository.Store
	deliverers []Deliverer
	metrics    *metrics.Metrics
}

func NewNotificationService(store repository.Store, m *metrics.Metrics, deliverers ...Deliverer) NotificationService {
	return &notificationService{
		store:      store,
		deliverers: deliverers,
		metrics:    m,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID, message string) (*domain.Notification, error) {
	var note domain.Notification
	err := runCommand(ctx, s.store, s, func(tx repository.Store, out *outbox) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			return err
		}
		n, err := out.notify(ctx, userID, message)
		if err != nil {
			return err
		}
		note = *n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *notificationService) CreateNotification(ctx context.Context, actorID, userID, message string) (*domain.Notification, error) {
	logger.EnterMethod("notificationService.CreateNotification", "actorID", actorID, "userID", userID)

	in := struct {
		UserID  string `json:"user_id" validate:"required"`
		Message string `json:"message" validate:"required,max=1000"`
	}{UserID: userID, Message: strings.TrimSpace(message)}
	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("notificationService.CreateNotification", err)
		return nil, err
	}

	actor, err := loadActor(ctx, s.store.Users(), actorID)
	if err != nil {
		logger.ExitMethodWithError("notificationService.CreateNotification", err)
		return nil, err
	}
	if err := authz.Authorize(actor, authz.NotifyUser, authz.Resource{TargetUserID: userID}); err != nil {
		logger.ExitMethodWithError("notificationService.CreateNotification", err)
		return nil, err
	}

	n, err := s.Notify(ctx, userID, in.Message)
	if err != nil {
		logger.ExitMethodWithError("notificationService.CreateNotification", err)
		return nil, err
	}
	logger.ExitMethod("notificationService.CreateNotification", "notificationID", n.ID)
	return n, nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.store.Notifications().ListByUser(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int32, error) {
	notes, err := s.store.Notifications().ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	var n int32
	for _, note := range notes {
		if !note.Read {
			n++
		}
	}
	return n, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	return s.store.Notifications().MarkAsRead(ctx, notificationID, userID)
}

func (s *notificationService) Dispatch(ctx context.Context, notes []domain.Notification) {
	if len(notes) == 0 {
		return
	}
	s.metrics.NotificationsCreated(len(notes))
	for _, d := range s.deliverers {
		for _, n := range notes {
			if err := d.Deliver(ctx, n); err != nil {
				s.metrics.DeliveryFailed(d.Name())
				logger.Warn("Notification delivery failed", "channel", d.Name(), "notificationID", n.ID, "userID", n.UserID, "error", err)
			}
		}
	}
}

// outbox collects the notifications written inside a transaction so they are
// dispatched only once it commits.
type outbox struct {
	tx    repository.Store
	notes []domain.Notification
}

func (o *outbox) notify(ctx context.Context, userID, message string) (*domain.Notification, error) {
	n := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		CreatedAt: now(),
	}
	if err := o.tx.Notifications().Create(ctx, &n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	o.notes = append(o.notes, n)
	return &n, nil
}

func (o *outbox) notifyAll(ctx context.Context, users []domain.User, message string) error {
	for _, u := range users {
		if _, err := o.notify(ctx, u.ID, message); err != nil {
			return err
		}
	}
	return nil
}

// runCommand applies fn atomically and dispatches its notifications after a
// successful commit.
func runCommand(ctx context.Context, store repository.Store, notes NotificationService, fn func(tx repository.Store, out *outbox) error) error {
	var out *outbox
	err := store.RunInTx(ctx, func(tx repository.Store) error {
		out = &outbox{tx: tx}
		return fn(tx, out)
	})
	if err != nil {
		return err
	}
	notes.Dispatch(ctx, out.notes)
	return nil
}
