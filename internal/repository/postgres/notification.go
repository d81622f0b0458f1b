package postgres

import (
	"context"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "userID", n.UserID)

	query := `INSERT INTO notifications (id, user_id, message, is_read, created_at) VALUES ($1, $2, $3, $4, $5)`
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID)
	_, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Message, n.Read, n.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)

	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "userID", n.UserID)
		return mapError(err, domain.ErrNotificationNotFound, domain.ErrAlreadyExists)
	}
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	query := `SELECT id, user_id, message, is_read, created_at FROM notifications WHERE user_id = $1 ORDER BY seq DESC`
	return r.query(ctx, query, userID)
}

func (r *notificationRepository) ListUnread(ctx context.Context) ([]domain.Notification, error) {
	query := `SELECT id, user_id, message, is_read, created_at FROM notifications WHERE is_read = FALSE ORDER BY seq`
	return r.query(ctx, query)
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireOneRow(result, domain.ErrNotificationNotFound)
}

func (r *notificationRepository) query(ctx context.Context, query string, args ...any) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
