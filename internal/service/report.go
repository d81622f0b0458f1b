package service

import (
	"context"
	"fmt"

	"clubhub-backend/internal/authz"
	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"

	"github.com/google/uuid"
)

type reportService struct {
	store repository.Store
}

func NewReportService(store repository.Store) ReportService {
	return &reportService{store: store}
}

// GenerateReport aggregates club counters from one consistent snapshot and
// stores the result.
func (s *reportService) GenerateReport(ctx context.Context, actorID, clubID string, reportType domain.ReportType) (*domain.Report, error) {
	logger.EnterMethod("reportService.GenerateReport", "actorID", actorID, "clubID", clubID, "type", reportType)

	var report *domain.Report
	err := s.store.RunInTx(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx.Users(), actorID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(actor, authz.GenerateReport, authz.Resource{}); err != nil {
			return err
		}
		club, err := tx.Clubs().GetByID(ctx, clubID)
		if err != nil {
			return err
		}

		var data map[string]int32
		switch reportType {
		case domain.ReportTypeMember:
			data, err = memberReport(ctx, tx, club.ID)
		case domain.ReportTypeEvent:
			data, err = eventReport(ctx, tx, club.ID)
		default:
			return domain.NewValidationError("type", "must be one of: member event")
		}
		if err != nil {
			return err
		}

		report = &domain.Report{
			ID:          uuid.NewString(),
			ClubID:      club.ID,
			Type:        reportType,
			Data:        data,
			GeneratedAt: now(),
			GeneratedBy: actor.ID,
		}
		if err := tx.Reports().Create(ctx, report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("reportService.GenerateReport", err, "clubID", clubID)
		return nil, err
	}

	logger.ExitMethod("reportService.GenerateReport", "reportID", report.ID)
	return report, nil
}

func (s *reportService) ListClubReports(ctx context.Context, actorID, clubID string) ([]domain.Report, error) {
	actor, err := loadActor(ctx, s.store.Users(), actorID)
	if err != nil {
		return nil, err
	}
	club, err := s.store.Clubs().GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ViewReports, authz.Resource{Club: club}); err != nil {
		return nil, err
	}
	return s.store.Reports().ListByClub(ctx, clubID)
}

// memberReport counts members and those who joined in the current UTC month.
func memberReport(ctx context.Context, tx repository.Store, clubID string) (map[string]int32, error) {
	members, err := tx.Memberships().ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	t := now()
	var thisMonth int32
	for _, m := range members {
		joined := m.JoinedAt.UTC()
		if joined.Year() == t.Year() && joined.Month() == t.Month() {
			thisMonth++
		}
	}
	return map[string]int32{
		"totalMembers":    int32(len(members)),
		"joinedThisMonth": thisMonth,
	}, nil
}

// eventReport counts events by status; upcoming are approved events that
// have not started yet.
func eventReport(ctx context.Context, tx repository.Store, clubID string) (map[string]int32, error) {
	events, err := tx.Events().ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	t := now()
	data := map[string]int32{
		"totalEvents":    int32(len(events)),
		"approvedEvents": 0,
		"pendingEvents":  0,
		"rejectedEvents": 0,
		"upcomingEvents": 0,
	}
	for _, e := range events {
		switch e.Status {
		case domain.StatusApproved:
			data["approvedEvents"]++
			if e.StartDate.After(t) {
				data["upcomingEvents"]++
			}
		case domain.StatusPending:
			data["pendingEvents"]++
		case domain.StatusRejected:
			data["rejectedEvents"]++
		}
	}
	return data, nil
}
