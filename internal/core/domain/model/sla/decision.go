// Package sla provides the value objects of the delivery-promise contract:
// the Decision written against an order by the SLA Calculator, and the
// Snapshot derived at query time by the SLA Tracker.
//
// A Decision is the comparison baseline for tracking. Once written it is
// corrected only by re-running orchestration, never mutated in place.
package sla

import (
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrDecisionIsNotConstructed is returned when using an improperly initialized Decision.
var ErrDecisionIsNotConstructed = errs.NewValueIsRequiredError(
	"SLA decision must be created via NewDecision constructor")

// Decision is the delivery promise computed for an order:
// the promised delivery timestamp and the turn-around time in days it was
// derived from. Decision is an immutable value object.
type Decision struct { //nolint:recvcheck //using for validation
	promisedAt time.Time
	tatDays    int

	guard guard.ConstructorGuard
}

// NewDecision creates a delivery promise.
// The promised timestamp must be non-zero and tatDays must be at least 1;
// a zero or negative TAT would produce a nonsensical promise.
func NewDecision(promisedAt time.Time, tatDays int) (Decision, error) {
	if promisedAt.IsZero() {
		return Decision{}, errs.NewValueIsRequiredError("promisedAt")
	}
	if tatDays < 1 {
		return Decision{}, errs.NewValueIsInvalidErrorWithCause("tatDays",
			fmt.Errorf("%d is not greater than 0", tatDays))
	}

	return Decision{
		promisedAt: promisedAt,
		tatDays:    tatDays,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the decision was created via NewDecision.
func (d Decision) Validate() error {
	return d.guard.Validate(ErrDecisionIsNotConstructed)
}

// PromisedAt returns the promised delivery timestamp.
func (d Decision) PromisedAt() time.Time {
	return d.promisedAt
}

// TatDays returns the turn-around time the promise was derived from.
func (d Decision) TatDays() int {
	return d.tatDays
}

// IsEqual compares two decisions for equality.
// Both decisions must be properly constructed for the comparison to succeed.
func (d Decision) IsEqual(other Decision) (bool, error) {
	if err := d.Validate(); err != nil {
		return false, err
	}
	if err := other.Validate(); err != nil {
		return false, err
	}

	return d.promisedAt.Equal(other.promisedAt) && d.tatDays == other.tatDays, nil
}
