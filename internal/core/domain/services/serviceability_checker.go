package services

import (
	"sort"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// ServiceabilityResult is the outcome of the route serviceability gate.
// "No carrier" is an expected business outcome, never an error: IsServiceable
// is false and Transporters is empty.
type ServiceabilityResult struct {
	IsServiceable bool
	Transporters  []carrier.Capability
}

// ServiceabilityChecker determines whether any carrier network covers an
// origin/destination route for a given payment mode, and returns the usable
// carrier set.
//
// The check is a pure read over the supplied route coverage snapshot: it
// intersects the carriers covering the origin with those covering the
// destination, then drops carriers without COD support when cash must be
// collected at delivery.
type ServiceabilityChecker struct{}

// NewServiceabilityChecker creates a new ServiceabilityChecker instance.
func NewServiceabilityChecker() ServiceabilityChecker {
	return ServiceabilityChecker{}
}

// Check evaluates route serviceability.
//
// Malformed pincodes or an invalid payment mode are caller errors and return
// a validation error. An unmatched route is not an error: the result simply
// reports IsServiceable=false.
//
// The returned transporter set is sorted by carrier code so identical inputs
// yield identical results.
func (ServiceabilityChecker) Check(
	origin kernel.Pincode,
	destination kernel.Pincode,
	mode order.PaymentMode,
	routeOptions []carrier.RouteCoverage,
) (ServiceabilityResult, error) {
	if err := origin.Validate(); err != nil {
		return ServiceabilityResult{}, err
	}
	if err := destination.Validate(); err != nil {
		return ServiceabilityResult{}, err
	}
	if err := mode.Validate(); err != nil {
		return ServiceabilityResult{}, err
	}

	transporters := make([]carrier.Capability, 0, len(routeOptions))
	for _, option := range routeOptions {
		if err := option.Capability.Validate(); err != nil {
			return ServiceabilityResult{}, err
		}

		if !option.ServesRoute() {
			continue
		}
		if mode == order.Cod && !option.Capability.SupportsCod() {
			continue
		}

		transporters = append(transporters, option.Capability)
	}

	sort.Slice(transporters, func(i, j int) bool {
		return transporters[i].Code() < transporters[j].Code()
	})

	return ServiceabilityResult{
		IsServiceable: len(transporters) > 0,
		Transporters:  transporters,
	}, nil
}
