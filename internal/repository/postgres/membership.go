package postgres

import (
	"context"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
)

type membershipRepository struct {
	db DBTX
}

func NewMembershipRepository(db DBTX) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	query := `INSERT INTO memberships (id, user_id, club_id, joined_at) VALUES ($1, $2, $3, $4)`
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	logger.DatabaseCall("INSERT", "memberships", "userID", m.UserID, "clubID", m.ClubID)
	_, err := r.db.ExecContext(ctx, query, m.ID, m.UserID, m.ClubID, m.JoinedAt)
	logger.DatabaseResult("INSERT", 1, err, "membershipID", m.ID)
	return mapError(err, domain.ErrNotMember, domain.ErrAlreadyMember)
}

func (r *membershipRepository) Get(ctx context.Context, userID, clubID string) (*domain.Membership, error) {
	m := &domain.Membership{}
	query := `SELECT id, user_id, club_id, joined_at FROM memberships WHERE user_id = $1 AND club_id = $2`
	err := r.db.QueryRowContext(ctx, query, userID, clubID).Scan(&m.ID, &m.UserID, &m.ClubID, &m.JoinedAt)
	if err != nil {
		return nil, mapError(err, domain.ErrNotMember, domain.ErrAlreadyMember)
	}
	return m, nil
}

func (r *membershipRepository) Delete(ctx context.Context, userID, clubID string) error {
	query := `DELETE FROM memberships WHERE user_id = $1 AND club_id = $2`
	logger.DatabaseCall("DELETE", "memberships", "userID", userID, "clubID", clubID)
	res, err := r.db.ExecContext(ctx, query, userID, clubID)
	logger.DatabaseResult("DELETE", 1, err, "userID", userID, "clubID", clubID)
	if err != nil {
		return err
	}
	return requireOneRow(res, domain.ErrNotMember)
}

func (r *membershipRepository) ListByClub(ctx context.Context, clubID string) ([]domain.Membership, error) {
	return r.query(ctx, `SELECT id, user_id, club_id, joined_at FROM memberships WHERE club_id = $1 ORDER BY seq`, clubID)
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID string) ([]domain.Membership, error) {
	return r.query(ctx, `SELECT id, user_id, club_id, joined_at FROM memberships WHERE user_id = $1 ORDER BY seq`, userID)
}

func (r *membershipRepository) query(ctx context.Context, query string, args ...any) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.ClubID, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
