package service

import (
	"context"
	"testing"
	"time"

	"clubhub-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventInput(start time.Time) EventInput {
	return EventInput{
		Title:     "Spring Open",
		Location:  "Main Hall",
		StartDate: start,
		EndDate:   start.Add(3 * time.Hour),
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

	t.Run("LeaderOfApprovedClub", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "lead", domain.UserRoleClubLeader)
		f.user(t, "admin", domain.UserRoleAdministrator)
		f.club(t, "c1", "lead", domain.StatusApproved)

		event, err := f.events.CreateEvent(ctx, "lead", "c1", eventInput(start))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, event.Status)
		assert.Equal(t, "lead", event.CreatedBy)

		approval, err := f.events.GetApproval(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, approval.Status)
		assert.Nil(t, approval.ReviewedAt)

		assert.Equal(t, []string{"New event Spring Open for Club c1 is pending approval"}, f.inbox(t, "admin"))
	})

	t.Run("StudentWhoIsNotLeaderLeavesNoTrace", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "lead", domain.UserRoleClubLeader)
		f.user(t, "s1", domain.UserRoleStudent)
		f.user(t, "admin", domain.UserRoleAdministrator)
		f.club(t, "c1", "lead", domain.StatusApproved)

		_, err := f.events.CreateEvent(ctx, "s1", "c1", eventInput(start))
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)

		events, err := f.events.ListEvents(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.Zero(t, f.totalNotifications(t))
		assert.Zero(t, f.delivered.count())
	})

	t.Run("PendingClubRejected", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "lead", domain.UserRoleStudent)
		f.club(t, "c1", "lead", domain.StatusPending)

		_, err := f.events.CreateEvent(ctx, "lead", "c1", eventInput(start))
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("RejectedClubRejected", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "lead", domain.UserRoleClubLeader)
		f.user(t, "admin", domain.UserRoleAdministrator)
		f.club(t, "c1", "lead", domain.StatusRejected)

		event, err := f.events.CreateEvent(ctx, "lead", "c1", eventInput(start))
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
		assert.Nil(t, event)

		events, err := f.events.ListEvents(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
		pending, err := f.events.ListPendingEvents(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
		assert.Zero(t, f.totalNotifications(t))
		assert.Zero(t, f.delivered.count())
	})

	t.Run("UnknownClub", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "lead", domain.UserRoleClubLeader)
		f.user(t, "admin", domain.UserRoleAdministrator)

		event, err := f.events.CreateEvent(ctx, "lead", "missing", eventInput(start))
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, event)

		events, err := f.events.ListEvents(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.Zero(t, f.totalNotifications(t))
	})

	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "lead", domain.UserRoleClubLeader)
		zero := int32(0)
		in := eventInput(start)
		in.EndDate = start.Add(-time.Hour)
		in.Capacity = &zero

		_, err := f.events.CreateEvent(ctx, "lead", " ", in)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "is required", verr.Fields["club_id"])
		assert.Contains(t, verr.Fields, "end_date")
		assert.Contains(t, verr.Fields, "capacity")
	})
}

func TestEventService_Decide(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	reviewed := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

	t.Run("ApproveRecordsReviewer", func(t *testing.T) {
		f := newFixture(t)
		freezeClock(t, reviewed)
		f.user(t, "lead", domain.UserRoleClubLeader)
		f.user(t, "admin", domain.UserRoleAdministrator)
		f.club(t, "c1", "lead", domain.StatusApproved)
		f.event(t, "e1", "c1", "lead", domain.StatusPending, start)

		event, err := f.events.ApproveEvent(ctx, "admin", "e1", "")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, event.Status)

		approval, err := f.events.GetApproval(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, approval.Status)
		assert.Equal(t, "admin", approval.ReviewedBy)
		assert.Equal(t, "Approved", approval.Comment)
		require.NotNil(t, approval.ReviewedAt)
		assert.True(t, approval.ReviewedAt.Equal(reviewed))

		assert.Equal(t, []string{"Your event Event e1 has been approved"}, f.inbox(t, "lead"))

		_, err = f.events.RejectEvent(ctx, "admin", "e1", "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		approval, err = f.events.GetApproval(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, approval.Status)
	})

	t.Run("RejectDefaultsComment", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "lead", domain.UserRoleClubLeader)
		f.user(t, "admin", domain.UserRoleAdministrator)
		f.club(t, "c1", "lead", domain.StatusApproved)
		f.event(t, "e1", "c1", "lead", domain.StatusPending, start)

		_, err := f.events.RejectEvent(ctx, "admin", "e1", "")
		require.NoError(t, err)
		approval, err := f.events.GetApproval(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, "Rejected", approval.Comment)
		assert.Equal(t, domain.StatusRejected, approval.Status)
	})

	t.Run("NonAdminNotAllowed", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "lead", domain.UserRoleClubLeader)
		f.club(t, "c1", "lead", domain.StatusApproved)
		f.event(t, "e1", "c1", "lead", domain.StatusPending, start)

		_, err := f.events.ApproveEvent(ctx, "lead", "e1", "")
		assert.ErrorIs(t, err, domain.ErrNotAllowed)

		event, err := f.events.GetEvent(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, event.Status)
		assert.Zero(t, f.totalNotifications(t))
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	f := newFixture(t)
	f.user(t, "lead", domain.UserRoleClubLeader)
	f.user(t, "s1", domain.UserRoleStudent)
	f.club(t, "c1", "lead", domain.StatusApproved)
	f.event(t, "e1", "c1", "lead", domain.StatusApproved, start)

	in := eventInput(start)
	in.Title = "Renamed"
	_, err := f.events.UpdateEvent(ctx, "s1", "e1", in)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	event, err := f.events.UpdateEvent(ctx, "lead", "e1", in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", event.Title)
	assert.Equal(t, domain.StatusApproved, event.Status)
	assert.Equal(t, []string{"Your event Renamed has been updated"}, f.inbox(t, "lead"))
}
