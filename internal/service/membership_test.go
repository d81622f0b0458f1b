package service

import (
	"context"
	"testing"

	"clubhub-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipService_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("PendingClubJoinsImmediately", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "s1", domain.UserRoleStudent)
		f.user(t, "l1", domain.UserRoleStudent)
		f.club(t, "c1", "l1", domain.StatusPending)

		res, err := f.members.Join(ctx, "s1", "c1")
		require.NoError(t, err)
		require.NotNil(t, res.Membership)
		assert.Nil(t, res.Request)
		assert.Equal(t, []string{"You have successfully joined Club c1"}, f.inbox(t, "s1"))

		_, err = f.members.Join(ctx, "s1", "c1")
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		members, err := f.members.MembersOf(ctx, "c1")
		require.NoError(t, err)
		assert.Len(t, members, 1)
	})

	t.Run("ApprovedClubFilesRequestForLeader", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "s1", domain.UserRoleStudent)
		f.user(t, "lead", domain.UserRoleClubLeader)
		f.club(t, "club_9", "lead", domain.StatusApproved)

		res, err := f.members.Join(ctx, "s1", "club_9")
		require.NoError(t, err)
		require.NotNil(t, res.Request)
		assert.Nil(t, res.Membership)
		assert.Equal(t, "s1", res.Request.UserID)

		member, err := f.members.IsMember(ctx, "s1", "club_9")
		require.NoError(t, err)
		assert.False(t, member)
		assert.Equal(t, []string{"s1 has requested to join Club club_9"}, f.inbox(t, "lead"))
		assert.Empty(t, f.inbox(t, "s1"))

		_, err = f.members.Join(ctx, "s1", "club_9")
		assert.ErrorIs(t, err, domain.ErrAlreadyRequested)

		_, err = f.requests.Resolve(ctx, "lead", res.Request.ID, true)
		require.NoError(t, err)
		member, err = f.members.IsMember(ctx, "s1", "club_9")
		require.NoError(t, err)
		assert.True(t, member)
	})

	t.Run("AdministratorCannotJoin", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "a1", domain.UserRoleAdministrator)
		f.club(t, "c1", "l1", domain.StatusPending)

		_, err := f.members.Join(ctx, "a1", "c1")
		assert.ErrorIs(t, err, domain.ErrNotAllowed)
		assert.Zero(t, f.totalNotifications(t))
	})

	t.Run("UnknownClub", func(t *testing.T) {
		f := newFixture(t)
		f.user(t, "s1", domain.UserRoleStudent)
		_, err := f.members.Join(ctx, "s1", "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMembershipService_Leave(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "s1", domain.UserRoleStudent)
	f.club(t, "c1", "l1", domain.StatusPending)

	_, err := f.members.Join(ctx, "s1", "c1")
	require.NoError(t, err)
	require.NoError(t, f.members.Leave(ctx, "s1", "c1"))

	member, err := f.members.IsMember(ctx, "s1", "c1")
	require.NoError(t, err)
	assert.False(t, member)
	assert.Equal(t, "You have left Club c1", f.inbox(t, "s1")[0])

	err = f.members.Leave(ctx, "s1", "c1")
	assert.ErrorIs(t, err, domain.ErrNotMember)
}

func TestJoinRequestService_Resolve(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, string) {
		f := newFixture(t)
		f.user(t, "s1", domain.UserRoleStudent)
		f.user(t, "lead", domain.UserRoleClubLeader)
		f.user(t, "other", domain.UserRoleClubLeader)
		f.club(t, "c1", "lead", domain.StatusApproved)
		res, err := f.members.Join(ctx, "s1", "c1")
		require.NoError(t, err)
		return f, res.Request.ID
	}

	t.Run("Reject", func(t *testing.T) {
		f, id := setup(t)

		m, err := f.requests.Resolve(ctx, "lead", id, false)
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, []string{"Your request to join Club c1 has been rejected"}, f.inbox(t, "s1"))

		member, err := f.members.IsMember(ctx, "s1", "c1")
		require.NoError(t, err)
		assert.False(t, member)

		_, err = f.requests.Resolve(ctx, "lead", id, true)
		assert.ErrorIs(t, err, domain.ErrJoinRequestNotFound)
	})

	t.Run("OnlyTheLeaderResolves", func(t *testing.T) {
		f, id := setup(t)

		_, err := f.requests.Resolve(ctx, "other", id, true)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)

		pending, err := f.requests.ListForClub(ctx, "lead", "c1")
		require.NoError(t, err)
		assert.Len(t, pending, 1)
		assert.Empty(t, f.inbox(t, "s1"))
	})

	t.Run("ListForClubGuarded", func(t *testing.T) {
		f, _ := setup(t)
		_, err := f.requests.ListForClub(ctx, "s1", "c1")
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})
}
