package sla

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the compliance state of an order against its delivery promise.
// It is purely derived at query time and never stored as ground truth.
type Status int

const (
	// StatusUnknown represents an invalid or undefined compliance state.
	StatusUnknown Status = iota
	// OnTrack means the promise is not yet due and the execution trajectory
	// fits within the remaining budget.
	OnTrack
	// AtRisk means the promise is not yet due but time since the last
	// execution milestone has consumed too much of the remaining budget.
	AtRisk
	// Breached means the promise has passed without delivery, or delivery
	// happened after the promise.
	Breached
	// Met means the order was delivered at or before the promise.
	Met
)

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s < OnTrack || s > Met {
		return errs.NewValueIsInvalidErrorWithCause("slaStatus",
			fmt.Errorf("%d is not a valid SLA status", s))
	}
	return nil
}

// String returns the machine-readable name of the compliance state.
func (s Status) String() string {
	switch s {
	case OnTrack:
		return "ON_TRACK"
	case AtRisk:
		return "AT_RISK"
	case Breached:
		return "BREACHED"
	case Met:
		return "MET"
	default:
		return "UNKNOWN"
	}
}

// Snapshot is the tracker's derived view of promise compliance.
// DelayMinutes is signed: zero or negative means ahead of or on schedule,
// positive means minutes past the promise.
type Snapshot struct {
	Status       Status
	DelayMinutes int
}
