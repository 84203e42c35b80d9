package jobs

import (
	"context"
	"fmt"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/logger"
)

// SendLowLifeReport emails every supervisor a digest of tools whose
// remaining life sits at or below their threshold, and leaves each owning
// shopkeeper a persisted notification.
func (jr *JobRunner) SendLowLifeReport() {
	jr.runWithRecovery("SendLowLifeReport", func() {
		ctx := context.Background()

		tools, err := jr.store.ListBelowThreshold(ctx)
		if err != nil {
			logger.Error("Failed to query low-life tools", "error", err)
			return
		}
		if len(tools) == 0 {
			logger.Info("No low-life tools, skipping report")
			return
		}

		supervisors, err := jr.store.ListSupervisors(ctx)
		if err != nil {
			logger.Error("Failed to list supervisors", "error", err)
			return
		}

		sent := 0
		for _, sup := range supervisors {
			if err := jr.services.Email.SendLowLifeReport(ctx, sup.Email, sup.Name, tools); err != nil {
				logger.Error("Failed to send low-life report",
					"supervisor_id", sup.ID,
					"email", sup.Email,
					"error", err)
				continue
			}
			sent++
		}

		notified := map[int32]bool{}
		for _, tool := range tools {
			if notified[tool.ShopkeeperID] {
				continue
			}
			notified[tool.ShopkeeperID] = true

			note := &domain.Notification{
				UserID:  tool.ShopkeeperID,
				Title:   "Low-Life Tool Report",
				Message: fmt.Sprintf("You have tools at or below their wear threshold, including %s (%.1f hours left)", tool.Name, tool.RemainingLife),
				Attributes: map[string]string{
					"type": "LOW_LIFE_REPORT",
				},
			}
			if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
				logger.Error("Failed to persist low-life notification",
					"shopkeeper_id", tool.ShopkeeperID,
					"error", err)
			}
		}

		logger.Info("Low-life report sent",
			"tools", len(tools),
			"supervisors_emailed", sent,
			"shopkeepers_notified", len(notified))
	})
}
