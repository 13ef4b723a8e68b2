package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// SlaMonitorJob sweeps promised, undelivered orders every minute and logs
// the ones whose promise is breached or at risk. The snapshot is derived
// state only; the job never mutates orders.
type SlaMonitorJob struct {
	uowFactory commands.OrderUoWFactory
	tracker    services.SlaTracker
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewSlaMonitorJob creates a new job for monitoring delivery promises.
func NewSlaMonitorJob(
	uowFactory commands.OrderUoWFactory,
	tracker services.SlaTracker,
	logger *slog.Logger,
) *SlaMonitorJob {
	return &SlaMonitorJob{
		uowFactory: uowFactory,
		tracker:    tracker,
		cron:       cron.New(),
		logger:     logger.With("component", "sla_monitor_job"),
	}
}

// Start begins the SLA monitor job to run every minute.
func (j *SlaMonitorJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		j.sweep(context.Background())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "SLA monitor job started (running every minute)")
	return nil
}

// Stop stops the SLA monitor job.
func (j *SlaMonitorJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "SLA monitor job stopped")
}

// sweep derives a compliance snapshot for every promised, undelivered order
// and logs breaches and at-risk promises.
func (j *SlaMonitorJob) sweep(ctx context.Context) {
	uow := j.uowFactory.Create()
	orders, err := uow.OrderRepository().GetAllPromisedUndelivered(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to fetch promised orders", "error", err)
		return
	}

	now := time.Now()
	for _, aggregate := range orders {
		promise := aggregate.Promise()
		if promise == nil {
			continue
		}

		snapshot, trackErr := j.tracker.Track(
			*promise,
			aggregate.PlacedAt(),
			aggregate.LastMilestoneAt(),
			aggregate.DeliveredAt(),
			now,
		)
		if trackErr != nil {
			j.logger.ErrorContext(ctx, "Failed to derive SLA snapshot",
				"orderId", aggregate.ID().String(), "error", trackErr)
			continue
		}

		switch snapshot.Status {
		case sla.Breached:
			j.logger.WarnContext(ctx, "Delivery promise breached",
				"orderId", aggregate.ID().String(),
				"promisedAt", promise.PromisedAt(),
				"delayMinutes", snapshot.DelayMinutes)
		case sla.AtRisk:
			j.logger.WarnContext(ctx, "Delivery promise at risk",
				"orderId", aggregate.ID().String(),
				"promisedAt", promise.PromisedAt(),
				"minutesToPromise", -snapshot.DelayMinutes)
		default:
		}
	}
}
