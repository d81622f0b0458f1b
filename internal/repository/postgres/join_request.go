package postgres

import (
	"context"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
)

type joinRequestRepository struct {
	db DBTX
}

func NewJoinRequestRepository(db DBTX) repository.JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

func (r *joinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	query := `INSERT INTO join_requests (id, user_id, club_id, requested_at) VALUES ($1, $2, $3, $4)`
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}
	logger.DatabaseCall("INSERT", "join_requests", "userID", req.UserID, "clubID", req.ClubID)
	_, err := r.db.ExecContext(ctx, query, req.ID, req.UserID, req.ClubID, req.RequestedAt)
	logger.DatabaseResult("INSERT", 1, err, "joinRequestID", req.ID)
	return mapError(err, domain.ErrJoinRequestNotFound, domain.ErrAlreadyRequested)
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id string) (*domain.JoinRequest, error) {
	req := &domain.JoinRequest{}
	query := `SELECT id, user_id, club_id, requested_at FROM join_requests WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&req.ID, &req.UserID, &req.ClubID, &req.RequestedAt)
	if err != nil {
		return nil, mapError(err, domain.ErrJoinRequestNotFound, domain.ErrAlreadyRequested)
	}
	return req, nil
}

func (r *joinRequestRepository) Find(ctx context.Context, userID, clubID string) (*domain.JoinRequest, error) {
	req := &domain.JoinRequest{}
	query := `SELECT id, user_id, club_id, requested_at FROM join_requests WHERE user_id = $1 AND club_id = $2`
	err := r.db.QueryRowContext(ctx, query, userID, clubID).Scan(&req.ID, &req.UserID, &req.ClubID, &req.RequestedAt)
	if err != nil {
		return nil, mapError(err, domain.ErrJoinRequestNotFound, domain.ErrAlreadyRequested)
	}
	return req, nil
}

func (r *joinRequestRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM join_requests WHERE id = $1`
	logger.DatabaseCall("DELETE", "join_requests", "joinRequestID", id)
	res, err := r.db.ExecContext(ctx, query, id)
	logger.DatabaseResult("DELETE", 1, err, "joinRequestID", id)
	if err != nil {
		return err
	}
	return requireOneRow(res, domain.ErrJoinRequestNotFound)
}

func (r *joinRequestRepository) ListByClub(ctx context.Context, clubID string) ([]domain.JoinRequest, error) {
	return r.query(ctx, `SELECT id, user_id, club_id, requested_at FROM join_requests WHERE club_id = $1 ORDER BY seq`, clubID)
}

func (r *joinRequestRepository) List(ctx context.Context) ([]domain.JoinRequest, error) {
	return r.query(ctx, `SELECT id, user_id, club_id, requested_at FROM join_requests ORDER BY seq`)
}

func (r *joinRequestRepository) query(ctx context.Context, query string, args ...any) ([]domain.JoinRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.JoinRequest
	for rows.Next() {
		var req domain.JoinRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.ClubID, &req.RequestedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
