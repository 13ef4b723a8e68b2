package services

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/pkg/errs"
)

// SlaCalculator computes the delivery promise for an order: a promised
// delivery timestamp and the turn-around-time it was derived from.
//
// The calculation is deterministic: identical priority, placement time, and
// route transit estimate always produce an identical promise, which is what
// makes re-orchestration idempotent.
//
// Rules:
//   - Orders placed at or after the daily cutoff hour start processing the
//     next calendar day. The promise counts calendar days from that effective
//     start, so a 23:50 placement against an 18:00 cutoff with a 2-day route
//     promises 3 calendar days after placement, not 2.
//   - EXPRESS priority subtracts a fixed acceleration from the route transit
//     estimate, floored at 1 day.
//   - The promise lands at the end (23:59:59) of the promised calendar day in
//     the placement timezone.
type SlaCalculator struct {
	cutoffHour     int
	expressCutDays int
}

// NewSlaCalculator creates a calculator with the daily cutoff hour [0..23]
// and the EXPRESS acceleration in days (>= 0).
func NewSlaCalculator(cutoffHour, expressCutDays int) (SlaCalculator, error) {
	if cutoffHour < 0 || cutoffHour > 23 {
		return SlaCalculator{}, errs.NewValueIsOutOfRangeError("cutoffHour", cutoffHour, 0, 23)
	}
	if expressCutDays < 0 {
		return SlaCalculator{}, errs.NewValueIsInvalidErrorWithCause("expressCutDays",
			fmt.Errorf("%d is negative", expressCutDays))
	}

	return SlaCalculator{
		cutoffHour:     cutoffHour,
		expressCutDays: expressCutDays,
	}, nil
}

// Calculate derives the delivery promise from the priority class, the
// placement timestamp, and the route's base transit estimate in days.
func (c SlaCalculator) Calculate(
	priority order.Priority,
	placedAt time.Time,
	routeTatDays int,
) (sla.Decision, error) {
	if err := priority.Validate(); err != nil {
		return sla.Decision{}, err
	}
	if placedAt.IsZero() {
		return sla.Decision{}, errs.NewValueIsRequiredError("placedAt")
	}
	if routeTatDays < 1 {
		return sla.Decision{}, errs.NewValueIsInvalidErrorWithCause("routeTatDays",
			fmt.Errorf("%d is not greater than 0", routeTatDays))
	}

	tatDays := routeTatDays
	if priority == order.Express {
		tatDays -= c.expressCutDays
		if tatDays < 1 {
			tatDays = 1
		}
	}

	start := placedAt
	if placedAt.Hour() >= c.cutoffHour {
		start = start.AddDate(0, 0, 1)
	}

	year, month, day := start.Date()
	promisedAt := time.Date(year, month, day, 23, 59, 59, 0, placedAt.Location()).
		AddDate(0, 0, tatDays)

	return sla.NewDecision(promisedAt, tatDays)
}
