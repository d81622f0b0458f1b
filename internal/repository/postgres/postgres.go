package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"

	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	q  DBTX
	tx *sql.Tx
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Users() repository.UserRepository {
	return NewUserRepository(s.q)
}

func (s *Store) Clubs() repository.ClubRepository {
	return NewClubRepository(s.q)
}

func (s *Store) Events() repository.EventRepository {
	return NewEventRepository(s.q)
}

func (s *Store) Memberships() repository.MembershipRepository {
	return NewMembershipRepository(s.q)
}

func (s *Store) Registrations() repository.RegistrationRepository {
	return NewRegistrationRepository(s.q)
}

func (s *Store) JoinRequests() repository.JoinRequestRepository {
	return NewJoinRequestRepository(s.q)
}

func (s *Store) Notifications() repository.NotificationRepository {
	return NewNotificationRepository(s.q)
}

func (s *Store) Approvals() repository.ApprovalRepository {
	return NewApprovalRepository(s.q)
}

func (s *Store) Reports() repository.ReportRepository {
	return NewReportRepository(s.q)
}

// RunInTx runs fn inside a database transaction. A Store that is already
// transactional runs fn directly so nested calls join the outer transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&Store{db: s.db, q: tx, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapError translates driver errors into the domain taxonomy.
func mapError(err, notFound, conflict error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return conflict
		case foreignKeyViolation:
			return fmt.Errorf("referenced row %w", domain.ErrNotFound)
		}
	}
	return err
}

// requireOneRow returns notFound when an UPDATE or DELETE matched nothing.
func requireOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
