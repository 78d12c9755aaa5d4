package jobs

import (
	"context"
	"time"

	"github.com/SkAltmash/ZapSplit/internal/logger"
)

// SendDueReminders emails and notifies users whose ZupPayLater dues
// fall within the configured reminder window.
func (jr *JobRunner) SendDueReminders() {
	jr.runWithRecovery("SendDueReminders", func() {
		ctx := context.Background()

		window := time.Duration(jr.config.PayLater.ReminderWindowDays) * 24 * time.Hour
		draws, err := jr.store.PayLaterRepository.ListDueWithin(ctx, window)
		if err != nil {
			logger.Error("Failed to list upcoming dues", "error", err)
			return
		}

		count := 0
		for i := range draws {
			draw := &draws[i]

			user, err := jr.store.UserRepository.GetByID(ctx, draw.UserID)
			if err != nil {
				logger.Error("Failed to load user for due reminder", "user_id", draw.UserID, "error", err)
				continue
			}
			if user.IsGhost {
				continue
			}

			jr.projector.DueReminder(ctx, draw)

			if err := jr.email.SendDueReminder(ctx, user.Email, user.Name, draw.Amount, draw.DueDate); err != nil {
				logger.Error("Failed to email due reminder",
					"user_id", user.ID,
					"draw_id", draw.ID,
					"error", err)
				continue
			}
			count++
		}

		logger.Info("Sent due reminders", "count", count, "window_days", jr.config.PayLater.ReminderWindowDays)
	})
}

// MarkOverdueDraws flips draws past their due date to overdue and
// notifies the borrower.
func (jr *JobRunner) MarkOverdueDraws() {
	jr.runWithRecovery("MarkOverdueDraws", func() {
		ctx := context.Background()

		draws, err := jr.store.PayLaterRepository.ListPastDue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list past-due draws", "error", err)
			return
		}

		count := 0
		for i := range draws {
			draw := &draws[i]

			if err := jr.store.PayLaterRepository.MarkOverdue(ctx, draw.ID); err != nil {
				logger.Error("Failed to mark draw overdue", "draw_id", draw.ID, "error", err)
				continue
			}

			jr.projector.DrawOverdue(ctx, draw)
			count++

			logger.Debug("Marked draw as overdue",
				"draw_id", draw.ID,
				"user_id", draw.UserID,
				"due_date", draw.DueDate.Format("2006-01-02"))
		}

		logger.Info("Marked draws as overdue", "count", count)
	})
}
