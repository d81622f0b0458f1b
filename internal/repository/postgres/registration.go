package postgres

import (
	"context"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
)

type registrationRepository struct {
	db DBTX
}

func NewRegistrationRepository(db DBTX) repository.RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.EventRegistration) error {
	query := `INSERT INTO event_registrations (id, user_id, event_id, registered_at) VALUES ($1, $2, $3, $4)`
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now().UTC()
	}
	logger.DatabaseCall("INSERT", "event_registrations", "userID", reg.UserID, "eventID", reg.EventID)
	_, err := r.db.ExecContext(ctx, query, reg.ID, reg.UserID, reg.EventID, reg.RegisteredAt)
	logger.DatabaseResult("INSERT", 1, err, "registrationID", reg.ID)
	return mapError(err, domain.ErrNotRegistered, domain.ErrAlreadyRegistered)
}

func (r *registrationRepository) Get(ctx context.Context, userID, eventID string) (*domain.EventRegistration, error) {
	reg := &domain.EventRegistration{}
	query := `SELECT id, user_id, event_id, registered_at FROM event_registrations WHERE user_id = $1 AND event_id = $2`
	err := r.db.QueryRowContext(ctx, query, userID, eventID).Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.RegisteredAt)
	if err != nil {
		return nil, mapError(err, domain.ErrNotRegistered, domain.ErrAlreadyRegistered)
	}
	return reg, nil
}

func (r *registrationRepository) Delete(ctx context.Context, userID, eventID string) error {
	query := `DELETE FROM event_registrations WHERE user_id = $1 AND event_id = $2`
	logger.DatabaseCall("DELETE", "event_registrations", "userID", userID, "eventID", eventID)
	res, err := r.db.ExecContext(ctx, query, userID, eventID)
	logger.DatabaseResult("DELETE", 1, err, "userID", userID, "eventID", eventID)
	if err != nil {
		return err
	}
	return requireOneRow(res, domain.ErrNotRegistered)
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.EventRegistration, error) {
	return r.query(ctx, `SELECT id, user_id, event_id, registered_at FROM event_registrations WHERE event_id = $1 ORDER BY seq`, eventID)
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.EventRegistration, error) {
	return r.query(ctx, `SELECT id, user_id, event_id, registered_at FROM event_registrations WHERE user_id = $1 ORDER BY seq`, userID)
}

func (r *registrationRepository) CountByEvent(ctx context.Context, eventID string) (int32, error) {
	var n int32
	query := `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *registrationRepository) query(ctx context.Context, query string, args ...any) ([]domain.EventRegistration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.EventRegistration
	for rows.Next() {
		var reg domain.EventRegistration
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}
