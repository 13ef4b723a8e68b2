package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/orchestration"
	"fulfillment/internal/core/domain/model/warehouse"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrNoOrderFound is returned when the order to orchestrate does not exist.
var ErrNoOrderFound = errors.New("no order found")

// envFetchAttempts bounds the retries of each environment read before the
// order is blocked with an infrastructure error.
const envFetchAttempts = 3

// OrchestrateOrderCommandHandler runs the orchestration pipeline for one
// order: it loads the order, prefetches the world state the pipeline decides
// against, invokes the coordinator, and persists the resulting order state
// together with the run's decision trail in one transaction.
//
// Configuration or stock reads that keep failing after retries do not leave
// the order half-processed: the order is blocked with an infrastructure
// reason and the failed fetch is recorded on the run, so operators see why
// nothing happened.
type OrchestrateOrderCommandHandler struct {
	uowFactory     UoWFactory
	warehouseStore ports.WarehouseStore
	carrierConfig  ports.CarrierConfig
	coordinator    services.Coordinator
}

// NewOrchestrateOrderCommandHandler creates a handler for orchestration runs.
func NewOrchestrateOrderCommandHandler(
	uowFactory UoWFactory,
	warehouseStore ports.WarehouseStore,
	carrierConfig ports.CarrierConfig,
	coordinator services.Coordinator,
) OrchestrateOrderCommandHandler {
	return OrchestrateOrderCommandHandler{
		uowFactory:     uowFactory,
		warehouseStore: warehouseStore,
		carrierConfig:  carrierConfig,
		coordinator:    coordinator,
	}
}

// Handle processes the orchestration command.
//
// Returns ErrNoOrderFound when the order does not exist and
// order.ErrOrderIsHandedOff when it already left orchestration. Business
// failures inside the pipeline (unserviceable, unfulfillable) return nil;
// the persisted order and run carry the outcome.
func (h OrchestrateOrderCommandHandler) Handle(ctx context.Context, command OrchestrateOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoOrderFound
	}
	if err != nil {
		return err
	}

	startedAt := time.Now()
	env, fetchErr := h.fetchEnvironment(ctx, aggregate)
	if fetchErr != nil {
		if errors.Is(fetchErr, context.Canceled) || errors.Is(fetchErr, context.DeadlineExceeded) {
			return fetchErr
		}

		run, err := h.blockOnInfrastructure(aggregate, startedAt, fetchErr)
		if err != nil {
			return err
		}
		return h.persist(ctx, uow, aggregate, run)
	}
	env.StartedAt = startedAt

	outcome, err := h.coordinator.Orchestrate(ctx, aggregate, env)
	if err != nil {
		return err
	}

	return h.persist(ctx, uow, aggregate, outcome.Run)
}

// fetchEnvironment loads the snapshot one run decides against: active
// locations, stock for the order's SKUs, and the carrier routes out of every
// candidate origin. Each read is retried a bounded number of times.
func (h OrchestrateOrderCommandHandler) fetchEnvironment(
	ctx context.Context,
	aggregate *order.Order,
) (services.Environment, error) {
	locations, err := retry(ctx, func() ([]warehouse.Location, error) {
		return h.warehouseStore.GetActiveLocations(ctx)
	})
	if err != nil {
		return services.Environment{}, err
	}

	skuIDs := make([]string, len(aggregate.Items()))
	for i, item := range aggregate.Items() {
		skuIDs[i] = item.SkuID()
	}

	stock, err := retry(ctx, func() (*warehouse.Availability, error) {
		return h.warehouseStore.GetAvailability(ctx, skuIDs)
	})
	if err != nil {
		return services.Environment{}, err
	}

	routes := make(map[string][]carrier.RouteCoverage, len(locations))
	for _, location := range locations {
		originKey := location.Pincode().String()
		if _, done := routes[originKey]; done {
			continue
		}

		origin := location.Pincode()
		coverage, err := retry(ctx, func() ([]carrier.RouteCoverage, error) {
			return h.carrierConfig.RouteCapabilities(ctx, origin, aggregate.Destination())
		})
		if err != nil {
			return services.Environment{}, err
		}
		routes[originKey] = coverage
	}

	return services.Environment{
		Routes:    routes,
		Locations: locations,
		Stock:     stock,
	}, nil
}

// blockOnInfrastructure records a failed run whose only trail entry is the
// broken environment fetch and blocks the order for operator attention.
func (h OrchestrateOrderCommandHandler) blockOnInfrastructure(
	aggregate *order.Order,
	startedAt time.Time,
	cause error,
) (*orchestration.Run, error) {
	if err := aggregate.BeginOrchestration(); err != nil {
		return nil, err
	}

	run, err := orchestration.NewRun(aggregate.ID(), startedAt)
	if err != nil {
		return nil, err
	}
	if err = run.Append(orchestration.StepConfigFetch, false, map[string]any{
		"error": cause.Error(),
	}); err != nil {
		return nil, err
	}
	if err = run.Complete(false, orchestration.NextStepNone); err != nil {
		return nil, err
	}

	if err = aggregate.Block(services.BlockReasonInfrastructureError); err != nil {
		return nil, err
	}
	return run, nil
}

func (h OrchestrateOrderCommandHandler) persist(
	ctx context.Context,
	uow UoW,
	aggregate *order.Order,
	run *orchestration.Run,
) error {
	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	if err := uow.RunRepository().Add(ctx, run); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// retry runs fn up to envFetchAttempts times, stopping early when the
// context is done.
func retry[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt < envFetchAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return zero, lastErr
}
