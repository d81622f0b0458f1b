package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clubhub-backend/internal/authz"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/metrics"
	"clubhub-backend/internal/repository"

	"github.com/google/uuid"
)

type eventService struct {
	store   repository.Store
	notes   NotificationService
	metrics *metrics.Metrics
}

func NewEventService(store repository.Store, notes NotificationService, m *metrics.Metrics) EventService {
	return &eventService{store: store, notes: notes, metrics: m}
}

// CreateEvent files a pending event with its shadow approval record and asks
// every administrator to review it.
func (s *eventService) CreateEvent(ctx context.Context, actorID, clubID string, in EventInput) (*domain.Event, error) {
	logger.EnterMethod("eventService.CreateEvent", "actorID", actorID, "clubID", clubID)

	in = trimEventInput(in)
	if err := validateEvent(strings.TrimSpace(clubID), in); err != nil {
		logger.ExitMethodWithError("eventService.CreateEvent", err)
		return nil, err
	}

	var event *domain.Event
	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		actor, err := loadActor(ctx, tx.Users(), actorID)
		if err != nil {
			return err
		}
		club, err := tx.Clubs().GetByID(ctx, clubID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, authz.CreateEvent, authz.Resource{Club: club}); err != nil {
			return err
		}

		ts := now()
		event = &domain.Event{
			ID:          uuid.NewString(),
			ClubID:      club.ID,
			Title:       in.Title,
			Description: in.Description,
			Location:    in.Location,
			StartDate:   in.StartDate.UTC(),
			EndDate:     in.EndDate.UTC(),
			Capacity:    in.Capacity,
			Status:      domain.StatusPending,
			CreatedBy:   actor.ID,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		}
		if err := tx.Events().Create(ctx, event); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		approval := &domain.Approval{
			ID:      uuid.NewString(),
			EventID: event.ID,
			Status:  domain.StatusPending,
		}
		if err := tx.Approvals().Create(ctx, approval); err != nil {
			return fmt.Errorf("failed to create approval record: %w", err)
		}

		admins, err := tx.Users().ListByRole(ctx, domain.UserRoleAdministrator)
		if err != nil {
			return fmt.Errorf("failed to list administrators: %w", err)
		}
		return out.notifyAll(ctx, admins, fmt.Sprintf("New event %s for %s is pending approval", event.Title, club.Name))
	})
	if err != nil {
		logger.ExitMethodWithError("eventService.CreateEvent", err, "actorID", actorID, "clubID", clubID)
		return nil, err
	}

	logger.ExitMethod("eventService.CreateEvent", "eventID", event.ID)
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, actorID, eventID string, in EventInput) (*domain.Event, error) {
	logger.EnterMethod("eventService.UpdateEvent", "actorID", actorID, "eventID", eventID)

	in = trimEventInput(in)
	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("eventService.UpdateEvent", err)
		return nil, err
	}

	var event *domain.Event
	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		actor, err := loadActor(ctx, tx.Users(), actorID)
		if err != nil {
			return err
		}
		event, err = tx.Events().GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		club, err := tx.Clubs().GetByID(ctx, event.ClubID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := authz.Authorize(actor, authz.UpdateEvent, authz.Resource{Club: club, Event: event}); err != nil {
			return err
		}

		event.Title = in.Title
		event.Description = in.Description
		event.Location = in.Location
		event.StartDate = in.StartDate.UTC()
		event.EndDate = in.EndDate.UTC()
		event.Capacity = in.Capacity
		event.UpdatedAt = now()
		if err := tx.Events().Update(ctx, event); err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		_, err = out.notify(ctx, event.CreatedBy, fmt.Sprintf("Your event %s has been updated", event.Title))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("eventService.UpdateEvent", err, "eventID", eventID)
		return nil, err
	}

	logger.ExitMethod("eventService.UpdateEvent", "eventID", event.ID)
	return event, nil
}

func (s *eventService) ApproveEvent(ctx context.Context, actorID, eventID, comment string) (*domain.Event, error) {
	if comment == "" {
		comment = "Approved"
	}
	return s.decide(ctx, actorID, eventID, comment, domain.StatusApproved)
}

func (s *eventService) RejectEvent(ctx context.Context, actorID, eventID, comment string) (*domain.Event, error) {
	if comment == "" {
		comment = "Rejected"
	}
	return s.decide(ctx, actorID, eventID, comment, domain.StatusRejected)
}

// decide moves a pending event and its approval record to next together and
// records who reviewed it.
func (s *eventService) decide(ctx context.Context, actorID, eventID, comment string, next domain.Status) (*domain.Event, error) {
	logger.EnterMethod("eventService.decide", "actorID", actorID, "eventID", eventID, "status", next)

	var event *domain.Event
	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		actor, err := loadActor(ctx, tx.Users(), actorID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, authz.DecideEvent, authz.Resource{}); err != nil {
			return err
		}
		event, err = tx.Events().GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if !event.Status.CanTransition(next) {
			return fmt.Errorf("event %s is %s: %w", event.ID, event.Status, domain.ErrInvalidTransition)
		}

		if err := tx.Events().UpdateStatus(ctx, event.ID, event.Status, next); err != nil {
			return fmt.Errorf("failed to update event status: %w", err)
		}
		ts := now()
		event.Status = next
		event.UpdatedAt = ts

		approval, err := tx.Approvals().GetByEventID(ctx, event.ID)
		missing := errors.Is(err, domain.ErrNotFound)
		if err != nil && !missing {
			return fmt.Errorf("failed to load approval record: %w", err)
		}
		if missing {
			approval = &domain.Approval{ID: uuid.NewString(), EventID: event.ID}
		}
		approval.Status = next
		approval.ReviewedBy = actor.ID
		approval.ReviewedAt = &ts
		approval.Comment = comment
		if missing {
			err = tx.Approvals().Create(ctx, approval)
		} else {
			err = tx.Approvals().Update(ctx, approval)
		}
		if err != nil {
			return fmt.Errorf("failed to record approval: %w", err)
		}

		_, err = out.notify(ctx, event.CreatedBy, fmt.Sprintf("Your event %s has been %s", event.Title, next))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("eventService.decide", err, "eventID", eventID)
		return nil, err
	}

	s.metrics.Decision("event", string(next))
	logger.ExitMethod("eventService.decide", "eventID", event.ID, "status", event.Status)
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.store.Events().GetByID(ctx, id)
}

func (s *eventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.store.Events().List(ctx)
}

func (s *eventService) ListPendingEvents(ctx context.Context) ([]domain.Event, error) {
	return s.store.Events().ListByStatus(ctx, domain.StatusPending)
}

func (s *eventService) ListClubEvents(ctx context.Context, clubID string) ([]domain.Event, error) {
	if _, err := s.store.Clubs().GetByID(ctx, clubID); err != nil {
		return nil, err
	}
	return s.store.Events().ListByClub(ctx, clubID)
}

func (s *eventService) GetApproval(ctx context.Context, eventID string) (*domain.Approval, error) {
	return s.store.Approvals().GetByEventID(ctx, eventID)
}

func validateEvent(clubID string, in EventInput) error {
	err := validateInput(in)
	if clubID != "" {
		return err
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		verr.Fields["club_id"] = "is required"
		return verr
	}
	if err != nil {
		return err
	}
	return domain.NewValidationError("club_id", "is required")
}
