package jobs

import (
	"context"

	"fleetdesk-backend/internal/logger"
)

// SendRenewalDigest mails the customers whose return date is inside the
// configured window. The registry is reloaded first since fleetctl writes
// to the same store.
func (jr *JobRunner) SendRenewalDigest() {
	jr.runWithRecovery("SendRenewalDigest", func() error {
		ctx := context.Background()
		if err := jr.services.Workspace.Reload(ctx); err != nil {
			return err
		}

		due := jr.services.Renewal.Due(ctx, jr.config.Renewal.DigestWindowDays)
		logger.Info("Renewals due", "count", len(due), "window_days", jr.config.Renewal.DigestWindowDays)
		return jr.services.Notifier.SendRenewalDigest(ctx, due)
	})
}
