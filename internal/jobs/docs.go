// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order orchestration.
//
// # Available Jobs
//
// 1. OrchestrationJob - Runs every second to orchestrate the oldest pending order
// 2. SlaMonitorJob - Runs every minute to flag breached and at-risk delivery promises
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(uowFactory, orchestrateHandler, tracker, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The orchestration job uses the cron expression "* * * * * *" (every second)
// so freshly placed orders pick up a delivery promise quickly. The SLA monitor
// sweeps once a minute; promise compliance does not change faster than that.
//
// # Error Handling
//
// - Orchestration job ignores expected business outcomes (empty queue, handed-off races)
// - SLA monitor logs breaches and at-risk promises at warning level
// - Failed job starts will stop any already running jobs
package jobs
