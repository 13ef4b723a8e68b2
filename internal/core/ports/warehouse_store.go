package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/warehouse"
)

// WarehouseStore provides read access to the warehouse network and its stock
// snapshot. Orchestration reads the whole picture up front, so one run
// decides against a single consistent view.
type WarehouseStore interface {
	// GetActiveLocations retrieves all currently active warehouse locations.
	GetActiveLocations(ctx context.Context) ([]warehouse.Location, error)

	// GetAvailability retrieves the stock snapshot for the given SKUs across
	// all locations.
	GetAvailability(ctx context.Context, skuIDs []string) (*warehouse.Availability, error)
}
