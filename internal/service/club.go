package service

import (
	"context"
	"fmt"

	"clubhub-backend/internal/authz"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/metrics"
	"clubhub-backend/internal/repository"

	"github.com/google/uuid"
)

type clubService struct {
	store   repository.Store
	notes   NotificationService
	metrics *metrics.Metrics
}

func NewClubService(store repository.Store, notes NotificationService, m *metrics.Metrics) ClubService {
	return &clubService{store: store, notes: notes, metrics: m}
}

// CreateClub files a new club for review. The creator becomes its leader and
// first member; every administrator is asked to review it.
func (s *clubService) CreateClub(ctx context.Context, actorID string, in ClubInput) (*domain.Club, error) {
	logger.EnterMethod("clubService.CreateClub", "actorID", actorID, "name", in.Name)

	in = trimClubInput(in)
	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("clubService.CreateClub", err)
		return nil, err
	}

	var club *domain.Club
	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		actor, err := loadActor(ctx, tx.Users(), actorID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, authz.CreateClub, authz.Resource{}); err != nil {
			return err
		}

		ts := now()
		club = &domain.Club{
			ID:          uuid.NewString(),
			Name:        in.Name,
			Description: in.Description,
			Category:    in.Category,
			Logo:        in.Logo,
			LeaderID:    actor.ID,
			Status:      domain.StatusPending,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		}
		if err := tx.Clubs().Create(ctx, club); err != nil {
			return fmt.Errorf("failed to create club: %w", err)
		}
		membership := &domain.Membership{
			ID:       uuid.NewString(),
			UserID:   actor.ID,
			ClubID:   club.ID,
			JoinedAt: ts,
		}
		if err := tx.Memberships().Create(ctx, membership); err != nil {
			return fmt.Errorf("failed to add creator as member: %w", err)
		}

		admins, err := tx.Users().ListByRole(ctx, domain.UserRoleAdministrator)
		if err != nil {
			return fmt.Errorf("failed to list administrators: %w", err)
		}
		if err := out.notifyAll(ctx, admins, fmt.Sprintf("New club %s is pending approval", club.Name)); err != nil {
			return err
		}
		_, err = out.notify(ctx, actor.ID, fmt.Sprintf("Your club %s has been submitted for approval", club.Name))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("clubService.CreateClub", err, "actorID", actorID)
		return nil, err
	}

	logger.ExitMethod("clubService.CreateClub", "clubID", club.ID)
	return club, nil
}

// UpdateClub edits the descriptive fields. An empty logo keeps the current
// one; RemoveLogo clears it.
func (s *clubService) UpdateClub(ctx context.Context, actorID, clubID string, in ClubInput) (*domain.Club, error) {
	logger.EnterMethod("clubService.UpdateClub", "actorID", actorID, "clubID", clubID)

	in = trimClubInput(in)
	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("clubService.UpdateClub", err)
		return nil, err
	}

	var club *domain.Club
	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		actor, err := loadActor(ctx, tx.Users(), actorID)
		if err != nil {
			return err
		}
		club, err = tx.Clubs().GetByID(ctx, clubID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, authz.UpdateClub, authz.Resource{Club: club}); err != nil {
			return err
		}

		club.Name = in.Name
		club.Description = in.Description
		club.Category = in.Category
		if in.Logo != "" {
			club.Logo = in.Logo
		}
		club.UpdatedAt = now()
		if err := tx.Clubs().Update(ctx, club); err != nil {
			return fmt.Errorf("failed to update club: %w", err)
		}
		_, err = out.notify(ctx, club.LeaderID, fmt.Sprintf("Your club %s has been updated", club.Name))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("clubService.UpdateClub", err, "clubID", clubID)
		return nil, err
	}

	logger.ExitMethod("clubService.UpdateClub", "clubID", club.ID)
	return club, nil
}

func (s *clubService) ApproveClub(ctx context.Context, actorID, clubID, comment string) (*domain.Club, error) {
	return s.decide(ctx, actorID, clubID, comment, domain.StatusApproved)
}

func (s *clubService) RejectClub(ctx context.Context, actorID, clubID, comment string) (*domain.Club, error) {
	return s.decide(ctx, actorID, clubID, comment, domain.StatusRejected)
}

// decide moves a pending club to next. Approval promotes a student leader to
// club leader; no other user is touched.
func (s *clubService) decide(ctx context.Context, actorID, clubID, comment string, next domain.Status) (*domain.Club, error) {
	logger.EnterMethod("clubService.decide", "actorID", actorID, "clubID", clubID, "status", next)

	var club *domain.Club
	err := runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		actor, err := loadActor(ctx, tx.Users(), actorID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, authz.DecideClub, authz.Resource{}); err != nil {
			return err
		}
		club, err = tx.Clubs().GetByID(ctx, clubID)
		if err != nil {
			return err
		}
		if !club.Status.CanTransition(next) {
			return fmt.Errorf("club %s is %s: %w", club.ID, club.Status, domain.ErrInvalidTransition)
		}

		if err := tx.Clubs().UpdateStatus(ctx, club.ID, club.Status, next); err != nil {
			return fmt.Errorf("failed to update club status: %w", err)
		}
		club.Status = next
		club.UpdatedAt = now()

		if next == domain.StatusApproved {
			leader, err := tx.Users().GetByID(ctx, club.LeaderID)
			if err != nil {
				return fmt.Errorf("failed to load club leader: %w", err)
			}
			if leader.Role == domain.UserRoleStudent {
				leader.Role = domain.UserRoleClubLeader
				leader.UpdatedAt = now()
				if err := tx.Users().Update(ctx, leader); err != nil {
					return fmt.Errorf("failed to promote club leader: %w", err)
				}
			}
		}

		_, err = out.notify(ctx, club.LeaderID, decisionMessage("club", club.Name, next, comment))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("clubService.decide", err, "clubID", clubID)
		return nil, err
	}

	s.metrics.Decision("club", string(next))
	logger.ExitMethod("clubService.decide", "clubID", club.ID, "status", club.Status)
	return club, nil
}

func (s *clubService) GetClub(ctx context.Context, id string) (*domain.Club, error) {
	return s.store.Clubs().GetByID(ctx, id)
}

func (s *clubService) ListClubs(ctx context.Context) ([]domain.Club, error) {
	return s.store.Clubs().List(ctx)
}

func (s *clubService) ListPendingClubs(ctx context.Context) ([]domain.Club, error) {
	return s.store.Clubs().ListByStatus(ctx, domain.StatusPending)
}

func (s *clubService) ListClubsOf(ctx context.Context, userID string) ([]domain.Club, error) {
	return clubsOf(ctx, s.store, userID)
}

// decisionMessage renders e.g. "Your club Chess has been approved: welcome".
func decisionMessage(kind, name string, status domain.Status, comment string) string {
	msg := fmt.Sprintf("Your %s %s has been %s", kind, name, status)
	if comment != "" {
		msg += ": " + comment
	}
	return msg
}
