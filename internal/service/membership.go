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

type membershipService struct {
	store repository.Store
	notes NotificationService
}

func NewMembershipService(store repository.Store, notes NotificationService) MembershipService {
	return &membershipService{store: store, notes: notes}
}

// Join adds the user to the club, or files a join request when the club is
// approved and led by someone else.
func (s *membershipService) Join(ctx context.Context, userID, clubID string) (*JoinResult, error) {
	logger.EnterMethod("membershipService.Join", "userID", userID, "clubID", clubID)

	var result JoinResult
	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		user, err := loadActor(ctx, tx.Users(), userID)
		if err != nil {
			return err
		}
		club, err := tx.Clubs().GetByID(ctx, clubID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(user, authz.JoinClub, authz.Resource{Club: club}); err != nil {
			return err
		}

		if err := absent(tx.Memberships().Get(ctx, userID, clubID)); err != nil {
			return orConflict(err, domain.ErrAlreadyMember)
		}
		if err := absent(tx.JoinRequests().Find(ctx, userID, clubID)); err != nil {
			return orConflict(err, domain.ErrAlreadyRequested)
		}

		if club.HasActiveLeader() && club.LeaderID != userID {
			req := &domain.JoinRequest{
				ID:          uuid.NewString(),
				UserID:      userID,
				ClubID:      clubID,
				RequestedAt: now(),
			}
			if err := tx.JoinRequests().Create(ctx, req); err != nil {
				return err
			}
			if _, err := out.notify(ctx, club.LeaderID, fmt.Sprintf("%s has requested to join %s", user.Username, club.Name)); err != nil {
				return err
			}
			result.Request = req
			return nil
		}

		m := &domain.Membership{
			ID:       uuid.NewString(),
			UserID:   userID,
			ClubID:   clubID,
			JoinedAt: now(),
		}
		if err := tx.Memberships().Create(ctx, m); err != nil {
			return err
		}
		if _, err := out.notify(ctx, userID, fmt.Sprintf("You have successfully joined %s", club.Name)); err != nil {
			return err
		}
		result.Membership = m
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("membershipService.Join", err, "userID", userID, "clubID", clubID)
		return nil, err
	}

	logger.ExitMethod("membershipService.Join", "requested", result.Request != nil)
	return &result, nil
}

func (s *membershipService) Leave(ctx context.Context, userID, clubID string) error {
	logger.EnterMethod("membershipService.Leave", "userID", userID, "clubID", clubID)

	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		club, err := tx.Clubs().GetByID(ctx, clubID)
		if err != nil {
			return err
		}
		if err := tx.Memberships().Delete(ctx, userID, clubID); err != nil {
			return err
		}
		_, err = out.notify(ctx, userID, fmt.Sprintf("You have left %s", club.Name))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("membershipService.Leave", err, "userID", userID, "clubID", clubID)
		return err
	}
	logger.ExitMethod("membershipService.Leave")
	return nil
}

func (s *membershipService) MembersOf(ctx context.Context, clubID string) ([]domain.Membership, error) {
	if _, err := s.store.Clubs().GetByID(ctx, clubID); err != nil {
		return nil, err
	}
	return s.store.Memberships().ListByClub(ctx, clubID)
}

func (s *membershipService) ClubsOf(ctx context.Context, userID string) ([]domain.Club, error) {
	return clubsOf(ctx, s.store, userID)
}

func (s *membershipService) IsMember(ctx context.Context, userID, clubID string) (bool, error) {
	_, err := s.store.Memberships().Get(ctx, userID, clubID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// clubsOf returns the clubs the user belongs to followed by any further clubs
// they lead.
func clubsOf(ctx context.Context, store repository.Store, userID string) ([]domain.Club, error) {
	memberships, err := store.Memberships().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	seen := make(map[string]bool)
	clubs := make([]domain.Club, 0, len(memberships))
	for _, m := range memberships {
		club, err := store.Clubs().GetByID(ctx, m.ClubID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		seen[club.ID] = true
		clubs = append(clubs, *club)
	}

	led, err := store.Clubs().ListByLeader(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list led clubs: %w", err)
	}
	for _, c := range led {
		if !seen[c.ID] {
			clubs = append(clubs, c)
		}
	}
	return clubs, nil
}

// absent turns a lookup result into nil when the row does not exist and into
// errFound when it does.
func absent(_ any, err error) error {
	if err == nil {
		return errFound
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

var errFound = errors.New("row exists")

// orConflict replaces errFound with the domain conflict error.
func orConflict(err, conflict error) error {
	if errors.Is(err, errFound) {
		return conflict
	}
	return err
}
