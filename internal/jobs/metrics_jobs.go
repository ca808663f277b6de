package jobs

import (
	"fleetdesk-backend/internal/logger"
)

// FlushMetrics writes the collectors to the node-exporter textfile
func (jr *JobRunner) FlushMetrics() {
	path := jr.config.Metrics.TextfilePath
	if path == "" {
		logger.Debug("Metrics textfile not configured, flush skipped")
		return
	}
	jr.runWithRecovery("FlushMetrics", func() error {
		return jr.metrics.WriteTextfile(path)
	})
}
