package jobs

import (
	"context"
	"time"

	"toolcrib-backend/internal/logger"
)

// staleNotificationAge is how long read notifications are kept before the
// weekly sweep removes them.
const staleNotificationAge = 30 * 24 * time.Hour

// CloseStaleNotifications deletes read notifications past the retention
// window so the notifications table does not grow without bound.
func (jr *JobRunner) CloseStaleNotifications() {
	jr.runWithRecovery("CloseStaleNotifications", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().Add(-staleNotificationAge)

		deleted, err := jr.store.DeleteReadOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to delete stale notifications", "error", err)
			return
		}
		logger.Info("Stale notifications removed", "deleted", deleted, "cutoff", cutoff)
	})
}
