package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "device_token", "created_at", "updated_at"}).
			AddRow("u1", "alice", "alice@example.com", "hash", "student", "", now, now)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs("u1").
			WillReturnRows(rows)

		user, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, domain.UserRoleStudent, user.Role)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("u2", "bob", "alice@example.com", "hash", "student", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &domain.User{
		ID: "u2", Username: "bob", Email: "alice@example.com", PasswordHash: "hash", Role: domain.UserRoleStudent,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_NullCapacity(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "club_id", "title", "description", "location", "start_date", "end_date", "capacity", "status", "created_by", "created_at", "updated_at"}).
		AddRow("e1", "c1", "Kickoff", "desc", "Hall", now, now, nil, "pending", "u1", now, now).
		AddRow("e2", "c1", "Social", "desc", "Cafe", now, now, int64(30), "approved", "u1", now, now)
	mock.ExpectQuery("SELECT (.+) FROM events WHERE club_id = \\$1").
		WithArgs("c1").
		WillReturnRows(rows)

	events, err := repo.ListByClub(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Nil(t, events[0].Capacity)
	require.NotNil(t, events[1].Capacity)
	assert.Equal(t, int32(30), *events[1].Capacity)
	assert.Equal(t, domain.StatusApproved, events[1].Status)
}

func TestMembershipRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	t.Run("CreateDuplicate", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO memberships").
			WithArgs("m1", "u1", "c1", sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, &domain.Membership{ID: "m1", UserID: "u1", ClubID: "c1"})
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM memberships WHERE user_id = \\$1 AND club_id = \\$2").
			WithArgs("u1", "c1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "u1", "c1"), domain.ErrNotMember)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_CountByEvent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM event_registrations WHERE event_id = \\$1").
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := repo.CountByEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), n)
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications SET is_read = TRUE").
			WithArgs("n1", "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.MarkAsRead(ctx, "n1", "u1"))
	})

	t.Run("OtherUsersNotification", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications SET is_read = TRUE").
			WithArgs("n1", "u2").
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.MarkAsRead(ctx, "n1", "u2"), domain.ErrNotificationNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ListByClub(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"id", "club_id", "type", "data", "generated_at", "generated_by"}).
		AddRow("r1", "c1", "member", []byte(`{"totalMembers":4,"joinedThisMonth":1}`), time.Now(), "admin")
	mock.ExpectQuery("SELECT (.+) FROM reports WHERE club_id = \\$1").
		WithArgs("c1").
		WillReturnRows(rows)

	reports, err := repo.ListByClub(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, domain.ReportTypeMember, reports[0].Type)
	assert.Equal(t, int32(4), reports[0].Data["totalMembers"])
}

func TestStore_RunInTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		db, mock := newMock(t)
		store := NewStore(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM join_requests WHERE id = \\$1").
			WithArgs("j1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO memberships").
			WithArgs("m1", "u1", "c1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.RunInTx(ctx, func(tx repository.Store) error {
			if err := tx.JoinRequests().Delete(ctx, "j1"); err != nil {
				return err
			}
			return tx.Memberships().Create(ctx, &domain.Membership{ID: "m1", UserID: "u1", ClubID: "c1"})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnError", func(t *testing.T) {
		db, mock := newMock(t)
		store := NewStore(db)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := store.RunInTx(ctx, func(tx repository.Store) error {
			return tx.RunInTx(ctx, func(repository.Store) error { return boom })
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClubRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	const guarded = "UPDATE clubs SET status = \\$1, updated_at = \\$2 WHERE id = \\$3 AND status = \\$4"

	t.Run("Pending", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewClubRepository(db)

		mock.ExpectExec(guarded).
			WithArgs("approved", sqlmock.AnyArg(), "c1", "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(ctx, "c1", domain.StatusPending, domain.StatusApproved))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewClubRepository(db)

		mock.ExpectExec(guarded).
			WithArgs("rejected", sqlmock.AnyArg(), "c1", "pending").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, "c1", domain.StatusPending, domain.StatusRejected)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClubRepository_UpdateLeavesStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClubRepository(db)

	mock.ExpectExec("UPDATE clubs SET name = \\$1, description = \\$2, category = \\$3, logo = \\$4, leader_id = \\$5, updated_at = \\$6 WHERE id = \\$7$").
		WithArgs("Chess", "desc", "games", "", "u1", sqlmock.AnyArg(), "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &domain.Club{
		ID: "c1", Name: "Chess", Description: "desc", Category: "games", LeaderID: "u1", Status: domain.StatusPending,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_UpdateStatusInTx(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE events SET status = \\$1, updated_at = \\$2 WHERE id = \\$3 AND status = \\$4").
		WithArgs("approved", sqlmock.AnyArg(), "e1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.RunInTx(ctx, func(tx repository.Store) error {
		return tx.Events().UpdateStatus(ctx, "e1", domain.StatusPending, domain.StatusApproved)
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}
