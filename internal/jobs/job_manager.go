package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	activeOrdersJob *ActiveOrdersJob
}

// NewJobManager creates the manager with every scheduled job of the application.
func NewJobManager(
	counter ActiveOrdersCounter,
	gauge ActiveOrdersGauge,
	clock Clock,
	activeOrdersSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		activeOrdersJob: NewActiveOrdersJob(counter, gauge, clock, activeOrdersSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.activeOrdersJob.Start(); err != nil {
		return fmt.Errorf("failed to start active orders job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.activeOrdersJob.Stop()
}
