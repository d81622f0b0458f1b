package memory

import (
	"context"
	"slices"

	"clubhub-backend/internal/domain"
)

type notificationRepo struct {
	acc accessor
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.notifications.get(n.ID); ok {
			return domain.ErrAlreadyExists
		}
		d.notifications.put(n.ID, *n)
		return nil
	})
}

// ListByUser returns the user's notifications newest first.
func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.acc.read(func(d *dataset) error {
		out = d.notifications.filter(func(n domain.Notification) bool { return n.UserID == userID })
		return nil
	})
	slices.Reverse(out)
	return out, err
}

func (r *notificationRepo) ListUnread(ctx context.Context) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.acc.read(func(d *dataset) error {
		out = d.notifications.filter(func(n domain.Notification) bool { return !n.Read })
		return nil
	})
	return out, err
}

func (r *notificationRepo) MarkAsRead(ctx context.Context, id, userID string) error {
	return r.acc.write(func(d *dataset) error {
		n, ok := d.notifications.get(id)
		if !ok || n.UserID != userID {
			return domain.ErrNotificationNotFound
		}
		n.Read = true
		d.notifications.put(id, n)
		return nil
	})
}
