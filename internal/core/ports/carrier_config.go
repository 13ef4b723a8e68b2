package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
)

// CarrierConfig provides the carrier network configuration: which carriers
// cover which routes and at what capability. Backed by configuration tables
// that operations teams maintain.
type CarrierConfig interface {
	// RouteCapabilities retrieves the route coverage options for one
	// origin/destination lane. An empty slice means no carrier is configured
	// for the lane, which is a valid business answer, not an error.
	RouteCapabilities(ctx context.Context, origin, destination kernel.Pincode) ([]carrier.RouteCoverage, error)
}
