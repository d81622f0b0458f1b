package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
)

// SendUnreadDigests emails every user with unread notifications a summary of
// them. Notifications stay unread; the digest is only a nudge.
func (jr *JobRunner) SendUnreadDigests() error {
	return jr.runWithRecovery(JobSendUnreadDigests, func(ctx context.Context) error {
		unread, err := jr.store.Notifications().ListUnread(ctx)
		if err != nil {
			return fmt.Errorf("failed to list unread notifications: %w", err)
		}

		byUser := make(map[string][]domain.Notification)
		for _, n := range unread {
			byUser[n.UserID] = append(byUser[n.UserID], n)
		}

		userIDs := make([]string, 0, len(byUser))
		for id := range byUser {
			userIDs = append(userIDs, id)
		}
		sort.Strings(userIDs)

		var errs []error
		sent := 0
		for _, userID := range userIDs {
			user, err := jr.store.Users().GetByID(ctx, userID)
			if err != nil {
				logger.Error("Failed to load digest recipient", "user_id", userID, "error", err)
				errs = append(errs, err)
				continue
			}

			notes := byUser[userID]
			sort.SliceStable(notes, func(i, j int) bool { return notes[i].CreatedAt.Before(notes[j].CreatedAt) })
			messages := make([]string, len(notes))
			for i, n := range notes {
				messages[i] = n.Message
			}

			if err := jr.services.Email.SendNotificationDigest(ctx, user.Email, user.Username, messages); err != nil {
				logger.Error("Failed to send notification digest",
					"user_id", userID,
					"email", user.Email,
					"error", err)
				errs = append(errs, err)
				continue
			}
			sent++
			logger.Debug("Sent notification digest", "user_id", userID, "messages", len(messages))
		}

		logger.Info("Notification digests sent", "sent", sent, "failed", len(errs))
		return errors.Join(errs...)
	})
}
