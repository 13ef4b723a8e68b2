package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/orchestration"
)

// RunRepository defines the persistence contract for orchestration runs and
// their decision trails.
type RunRepository interface {
	// Add persists a completed or in-flight run with its full trail.
	Add(ctx context.Context, run *orchestration.Run) error

	// Get retrieves a run by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*orchestration.Run, error)

	// GetLastForOrder retrieves the most recent run for an order, by start
	// time. Used to explain the order's current state.
	GetLastForOrder(ctx context.Context, orderID kernel.UUID) (*orchestration.Run, error)
}
