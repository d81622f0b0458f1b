package postgres

import (
	"context"
	"database/sql"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
)

type approvalRepository struct {
	db DBTX
}

func NewApprovalRepository(db DBTX) repository.ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, a *domain.Approval) error {
	query := `INSERT INTO approvals (id, event_id, status, reviewed_by, reviewed_at, comment) VALUES ($1, $2, $3, $4, $5, $6)`
	logger.DatabaseCall("INSERT", "approvals", "eventID", a.EventID)
	_, err := r.db.ExecContext(ctx, query, a.ID, a.EventID, a.Status, nullString(a.ReviewedBy), a.ReviewedAt, a.Comment)
	logger.DatabaseResult("INSERT", 1, err, "approvalID", a.ID)
	return mapError(err, domain.ErrApprovalNotFound, domain.ErrAlreadyExists)
}

func (r *approvalRepository) GetByEventID(ctx context.Context, eventID string) (*domain.Approval, error) {
	a := &domain.Approval{}
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	query := `SELECT id, event_id, status, reviewed_by, reviewed_at, comment FROM approvals WHERE event_id = $1`
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(&a.ID, &a.EventID, &a.Status, &reviewedBy, &reviewedAt, &a.Comment)
	if err != nil {
		return nil, mapError(err, domain.ErrApprovalNotFound, domain.ErrAlreadyExists)
	}
	a.ReviewedBy = reviewedBy.String
	if reviewedAt.Valid {
		a.ReviewedAt = &reviewedAt.Time
	}
	return a, nil
}

func (r *approvalRepository) Update(ctx context.Context, a *domain.Approval) error {
	query := `UPDATE approvals SET status = $1, reviewed_by = $2, reviewed_at = $3, comment = $4 WHERE event_id = $5`
	logger.DatabaseCall("UPDATE", "approvals", "eventID", a.EventID, "status", a.Status)
	res, err := r.db.ExecContext(ctx, query, a.Status, nullString(a.ReviewedBy), a.ReviewedAt, a.Comment, a.EventID)
	logger.DatabaseResult("UPDATE", 1, err, "eventID", a.EventID)
	if err != nil {
		return err
	}
	return requireOneRow(res, domain.ErrApprovalNotFound)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
