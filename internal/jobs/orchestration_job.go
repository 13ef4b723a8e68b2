package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// OrchestrationJob drains the pending order queue. Runs every second, picks
// the oldest pending order, and runs the orchestration pipeline on it.
type OrchestrationJob struct {
	uowFactory commands.OrderUoWFactory
	handler    commands.OrchestrateOrderCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewOrchestrationJob creates a new job for orchestrating pending orders.
// Uses OrchestrateOrderCommandHandler to process one order per tick.
func NewOrchestrationJob(
	uowFactory commands.OrderUoWFactory,
	handler commands.OrchestrateOrderCommandHandler,
	logger *slog.Logger,
) *OrchestrationJob {
	return &OrchestrationJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "orchestration_job"),
	}
}

// Start begins the orchestration job to run every second.
func (j *OrchestrationJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		j.orchestrateNext(ctx)
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Orchestration job started (running every second)")
	return nil
}

// Stop stops the orchestration job.
func (j *OrchestrationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Orchestration job stopped")
}

// orchestrateNext picks the oldest pending order and runs the pipeline on it.
// An empty queue and races with concurrent orchestration are expected and
// not logged as failures.
func (j *OrchestrationJob) orchestrateNext(ctx context.Context) {
	uow := j.uowFactory.Create()
	aggregate, err := uow.OrderRepository().GetFirstInPendingStatus(ctx)
	if err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			j.logger.ErrorContext(ctx, "Failed to fetch pending order", "error", err)
		}
		return
	}

	cmd, err := commands.NewOrchestrateOrderCommand(aggregate.ID())
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build orchestration command", "error", err)
		return
	}

	if err := j.handler.Handle(ctx, cmd); err != nil {
		if errors.Is(err, commands.ErrNoOrderFound) || errors.Is(err, order.ErrOrderIsHandedOff) {
			return
		}
		j.logger.ErrorContext(ctx, "Orchestration job failed",
			"orderId", aggregate.ID().String(), "error", err)
	}
}
