// Package ports defines repository and gateway interfaces for the
// orchestration domain. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying orders based on
// their orchestration status.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including its
	// promise and any recorded milestones.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its current orchestration state.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetFirstInPendingStatus retrieves the first order awaiting
	// orchestration. Used by the background orchestration loop.
	GetFirstInPendingStatus(ctx context.Context) (*order.Order, error)

	// GetAllPromisedUndelivered retrieves all orders that carry a delivery
	// promise and have not recorded a DELIVERED milestone yet. Used by the
	// SLA monitor to find promises at risk or breached.
	GetAllPromisedUndelivered(ctx context.Context) ([]*order.Order, error)
}
