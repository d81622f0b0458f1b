package service

import (
	"context"
	"errors"
	"fmt"

	"clubhub-backend/internal/authz"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"

	"github.com/google/uuid"
)

type joinRequestService struct {
	store repository.Store
	notes NotificationService
}

func NewJoinRequestService(store repository.Store, notes NotificationService) JoinRequestService {
	return &joinRequestService{store: store, notes: notes}
}

// Resolve settles a pending join request. The request is removed in both
// outcomes, so a second call fails with ErrJoinRequestNotFound.
func (s *joinRequestService) Resolve(ctx context.Context, actorID, requestID string, approved bool) (*domain.Membership, error) {
	logger.EnterMethod("joinRequestService.Resolve", "actorID", actorID, "requestID", requestID, "approved", approved)

	var membership *domain.Membership
	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		actor, err := loadActor(ctx, tx.Users(), actorID)
		if err != nil {
			return err
		}
		req, err := tx.JoinRequests().GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		club, err := tx.Clubs().GetByID(ctx, req.ClubID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, authz.ResolveJoinRequest, authz.Resource{Club: club}); err != nil {
			return err
		}
		if err := tx.JoinRequests().Delete(ctx, req.ID); err != nil {
			return err
		}

		if !approved {
			_, err = out.notify(ctx, req.UserID, fmt.Sprintf("Your request to join %s has been rejected", club.Name))
			return err
		}

		membership, err = tx.Memberships().Get(ctx, req.UserID, club.ID)
		if errors.Is(err, domain.ErrNotFound) {
			membership = &domain.Membership{
				ID:       uuid.NewString(),
				UserID:   req.UserID,
				ClubID:   club.ID,
				JoinedAt: now(),
			}
			err = tx.Memberships().Create(ctx, membership)
		}
		if err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		_, err = out.notify(ctx, req.UserID, fmt.Sprintf("Your request to join %s has been approved", club.Name))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("joinRequestService.Resolve", err, "requestID", requestID)
		return nil, err
	}

	logger.ExitMethod("joinRequestService.Resolve", "requestID", requestID, "approved", approved)
	return membership, nil
}

func (s *joinRequestService) ListForClub(ctx context.Context, actorID, clubID string) ([]domain.JoinRequest, error) {
	actor, err := loadActor(ctx, s.store.Users(), actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.store.Clubs().GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ViewJoinRequests, authz.Resource{Club: club}); err != nil {
		return nil, err
	}
	return s.store.JoinRequests().ListByClub(ctx, clubID)
}
