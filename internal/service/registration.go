package service

import (
	"context"
	"errors"
	"fmt"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"

	"github.com/google/uuid"
)

type registrationService struct {
	store           repository.Store
	notes           NotificationService
	enforceCapacity bool
}

// NewRegistrationService builds the registration service. Event capacity is
// only checked when enforceCapacity is set.
func NewRegistrationService(store repository.Store, notes NotificationService, enforceCapacity bool) RegistrationService {
	return &registrationService{
		store:           store,
		notes:           notes,
		enforceCapacity: enforceCapacity,
	}
}

func (s *registrationService) Register(ctx context.Context, userID, eventID string) (*domain.EventRegistration, error) {
	logger.EnterMethod("registrationService.Register", "userID", userID, "eventID", eventID)

	var reg *domain.EventRegistration
	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		if _, err := loadActor(ctx, tx.Users(), userID); err != nil {
			return err
		}
		event, err := tx.Events().GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if err := absent(tx.Registrations().Get(ctx, userID, eventID)); err != nil {
			return orConflict(err, domain.ErrAlreadyRegistered)
		}

		if s.enforceCapacity && event.Capacity != nil {
			count, err := tx.Registrations().CountByEvent(ctx, eventID)
			if err != nil {
				return fmt.Errorf("failed to count registrations: %w", err)
			}
			if count >= *event.Capacity {
				return domain.ErrCapacityReached
			}
		}

		reg = &domain.EventRegistration{
			ID:           uuid.NewString(),
			UserID:       userID,
			EventID:      eventID,
			RegisteredAt: now(),
		}
		if err := tx.Registrations().Create(ctx, reg); err != nil {
			return err
		}
		_, err = out.notify(ctx, userID, fmt.Sprintf("You have registered for %s", event.Title))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.Register", err, "userID", userID, "eventID", eventID)
		return nil, err
	}
	logger.ExitMethod("registrationService.Register", "registrationID", reg.ID)
	return reg, nil
}

func (s *registrationService) Unregister(ctx context.Context, userID, eventID string) error {
	logger.EnterMethod("registrationService.Unregister", "userID", userID, "eventID", eventID)

	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		event, err := tx.Events().GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if err := tx.Registrations().Delete(ctx, userID, eventID); err != nil {
			return err
		}
		_, err = out.notify(ctx, userID, fmt.Sprintf("You have unregistered from %s", event.Title))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.Unregister", err, "userID", userID, "eventID", eventID)
		return err
	}
	logger.ExitMethod("registrationService.Unregister")
	return nil
}

func (s *registrationService) AttendeesOf(ctx context.Context, eventID string) ([]domain.EventRegistration, error) {
	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.Registrations().ListByEvent(ctx, eventID)
}

// EventsOf lists the approved events the user is registered for.
func (s *registrationService) EventsOf(ctx context.Context, userID string) ([]domain.Event, error) {
	regs, err := s.store.Registrations().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	events := make([]domain.Event, 0, len(regs))
	for _, r := range regs {
		e, err := s.store.Events().GetByID(ctx, r.EventID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if e.Status == domain.StatusApproved {
			events = append(events, *e)
		}
	}
	return events, nil
}

func (s *registrationService) IsRegistered(ctx context.Context, userID, eventID string) (bool, error) {
	_, err := s.store.Registrations().Get(ctx, userID, eventID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *registrationService) AttendeeCount(ctx context.Context, eventID string) (int32, error) {
	return s.store.Registrations().CountByEvent(ctx, eventID)
}
