package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/services"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orchestrationJob *OrchestrationJob
	slaMonitorJob    *SlaMonitorJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the unit of work factory, the orchestration handler, and the SLA
// tracker as dependencies to wire up job execution.
func NewJobManager(
	uowFactory commands.OrderUoWFactory,
	orchestrateHandler commands.OrchestrateOrderCommandHandler,
	tracker services.SlaTracker,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		orchestrationJob: NewOrchestrationJob(uowFactory, orchestrateHandler, logger),
		slaMonitorJob:    NewSlaMonitorJob(uowFactory, tracker, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orchestrationJob.Start(); err != nil {
		return fmt.Errorf("failed to start orchestration job: %w", err)
	}

	if err := jm.slaMonitorJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.orchestrationJob.Stop()
		return fmt.Errorf("failed to start SLA monitor job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.slaMonitorJob.Stop()
	jm.orchestrationJob.Stop()
}
