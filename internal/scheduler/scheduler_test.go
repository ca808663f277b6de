package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/config"
	"fleetdesk-backend/internal/jobs"
	"fleetdesk-backend/internal/metrics"
)

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{}
	require.NoError(t, cfg.Validate())

	t.Run("DefaultSpecs", func(t *testing.T) {
		s, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg, metrics.New()))
		require.NoError(t, err)
		assert.Equal(t, 3, s.Entries())
		assert.True(t, s.IsRunning())
	})

	t.Run("InvalidSpec", func(t *testing.T) {
		bad := *cfg
		bad.Scheduler.FlushMetrics = "every five minutes"
		_, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, &bad, metrics.New()))
		assert.Error(t, err)
	})
}
