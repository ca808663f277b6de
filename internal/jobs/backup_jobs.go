package jobs

import (
	"context"

	"fleetdesk-backend/internal/logger"
)

// BackupSnapshot uploads the current store snapshots to backup storage
func (jr *JobRunner) BackupSnapshot() {
	jr.runWithRecovery("BackupSnapshot", func() error {
		key, err := jr.services.Backup.Snapshot(context.Background())
		if err != nil {
			return err
		}
		logger.Info("Backup snapshot uploaded", "key", key)
		return nil
	})
}
