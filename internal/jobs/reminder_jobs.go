package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
)

// RemindPendingApprovals tells every administrator how many clubs and events
// are waiting for a decision. Nothing is sent when the queue is empty.
func (jr *JobRunner) RemindPendingApprovals() error {
	return jr.runWithRecovery(JobRemindPendingApprovals, func(ctx context.Context) error {
		clubs, err := jr.store.Clubs().ListByStatus(ctx, domain.StatusPending)
		if err != nil {
			return fmt.Errorf("failed to list pending clubs: %w", err)
		}
		events, err := jr.store.Events().ListByStatus(ctx, domain.StatusPending)
		if err != nil {
			return fmt.Errorf("failed to list pending events: %w", err)
		}
		if len(clubs) == 0 && len(events) == 0 {
			logger.Info("No pending approvals")
			return nil
		}

		admins, err := jr.store.Users().ListByRole(ctx, domain.UserRoleAdministrator)
		if err != nil {
			return fmt.Errorf("failed to list administrators: %w", err)
		}

		message := fmt.Sprintf("Reminder: %s and %s are awaiting approval",
			plural(len(clubs), "club"), plural(len(events), "event"))

		var errs []error
		for _, admin := range admins {
			if _, err := jr.services.Notifications.Notify(ctx, admin.ID, message); err != nil {
				logger.Error("Failed to remind administrator", "user_id", admin.ID, "error", err)
				errs = append(errs, err)
			}
		}

		logger.Info("Pending approval reminders sent",
			"admins", len(admins),
			"pending_clubs", len(clubs),
			"pending_events", len(events))
		return errors.Join(errs...)
	})
}

// RemindJoinRequests tells each club leader how many join requests are
// waiting on them.
func (jr *JobRunner) RemindJoinRequests() error {
	return jr.runWithRecovery(JobRemindJoinRequests, func(ctx context.Context) error {
		requests, err := jr.store.JoinRequests().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list join requests: %w", err)
		}

		perClub := make(map[string]int)
		for _, r := range requests {
			perClub[r.ClubID]++
		}
		clubIDs := make([]string, 0, len(perClub))
		for id := range perClub {
			clubIDs = append(clubIDs, id)
		}
		sort.Strings(clubIDs)

		var errs []error
		reminded := 0
		for _, clubID := range clubIDs {
			club, err := jr.store.Clubs().GetByID(ctx, clubID)
			if err != nil {
				logger.Error("Failed to load club for join request reminder", "club_id", clubID, "error", err)
				errs = append(errs, err)
				continue
			}
			if club.LeaderID == "" {
				continue
			}

			message := fmt.Sprintf("Reminder: %s for %s awaiting your review",
				plural(perClub[clubID], "join request"), club.Name)
			if _, err := jr.services.Notifications.Notify(ctx, club.LeaderID, message); err != nil {
				logger.Error("Failed to remind club leader",
					"club_id", clubID,
					"user_id", club.LeaderID,
					"error", err)
				errs = append(errs, err)
				continue
			}
			reminded++
		}

		logger.Info("Join request reminders sent", "clubs", reminded, "requests", len(requests))
		return errors.Join(errs...)
	})
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
