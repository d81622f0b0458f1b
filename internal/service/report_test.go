package service

import (
	"context"
	"testing"
	"time"

	"clubhub-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_GenerateReport(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) *fixture {
		f := newFixture(t)
		freezeClock(t, clock)
		f.user(t, "admin", domain.UserRoleAdministrator)
		f.user(t, "lead", domain.UserRoleClubLeader)
		f.club(t, "c1", "lead", domain.StatusApproved)
		f.club(t, "c2", "lead", domain.StatusApproved)

		joined := []time.Time{
			time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 4, 14, 8, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC),
			time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		}
		for i, at := range joined {
			id := string(rune('a' + i))
			require.NoError(t, f.store.Memberships().Create(ctx, &domain.Membership{ID: "m" + id, UserID: "u" + id, ClubID: "c1", JoinedAt: at}))
		}
		require.NoError(t, f.store.Memberships().Create(ctx, &domain.Membership{ID: "mx", UserID: "ux", ClubID: "c2", JoinedAt: clock}))

		f.event(t, "past", "c1", "lead", domain.StatusApproved, clock.Add(-48*time.Hour))
		f.event(t, "soon", "c1", "lead", domain.StatusApproved, clock.Add(48*time.Hour))
		f.event(t, "waiting", "c1", "lead", domain.StatusPending, clock.Add(72*time.Hour))
		f.event(t, "no", "c1", "lead", domain.StatusRejected, clock.Add(72*time.Hour))
		f.event(t, "elsewhere", "c2", "lead", domain.StatusApproved, clock.Add(72*time.Hour))
		return f
	}

	t.Run("MemberReport", func(t *testing.T) {
		f := setup(t)
		report, err := f.reports.GenerateReport(ctx, "admin", "c1", domain.ReportTypeMember)
		require.NoError(t, err)
		assert.Equal(t, map[string]int32{"totalMembers": 4, "joinedThisMonth": 2}, report.Data)
		assert.Equal(t, "admin", report.GeneratedBy)
		assert.True(t, report.GeneratedAt.Equal(clock))
	})

	t.Run("EventReport", func(t *testing.T) {
		f := setup(t)
		report, err := f.reports.GenerateReport(ctx, "admin", "c1", domain.ReportTypeEvent)
		require.NoError(t, err)
		assert.Equal(t, map[string]int32{
			"totalEvents":    4,
			"approvedEvents": 2,
			"pendingEvents":  1,
			"rejectedEvents": 1,
			"upcomingEvents": 1,
		}, report.Data)

		reports, err := f.reports.ListClubReports(ctx, "lead", "c1")
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, report.ID, reports[0].ID)
		assert.Zero(t, f.totalNotifications(t))
	})

	t.Run("AdministratorsOnly", func(t *testing.T) {
		f := setup(t)
		_, err := f.reports.GenerateReport(ctx, "lead", "c1", domain.ReportTypeMember)
		assert.ErrorIs(t, err, domain.ErrNotAllowed)

		reports, err := f.reports.ListClubReports(ctx, "admin", "c1")
		require.NoError(t, err)
		assert.Empty(t, reports)
	})

	t.Run("UnknownType", func(t *testing.T) {
		f := setup(t)
		_, err := f.reports.GenerateReport(ctx, "admin", "c1", domain.ReportType("finance"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("UnknownClub", func(t *testing.T) {
		f := setup(t)
		_, err := f.reports.GenerateReport(ctx, "admin", "nope", domain.ReportTypeMember)
		assert.ErrorIs(t, err, domain.ErrClubNotFound)
	})
}
