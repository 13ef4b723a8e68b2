package order

import (
	"fmt"
	"slices"

	"fulfillment/internal/pkg/errs"
)

// Status represents the orchestration lifecycle state of an order.
// It implements a state machine with an explicit transition table so illegal
// transitions are rejected instead of being inferred from scattered comparisons.
//
// State transitions:
//
//	PENDING ──> SERVICEABILITY_CHECKED ──> SLA_SET ──> ALLOCATED ──> PARTNER_SELECTED ──> HANDED_OFF
//	   │                                                  │
//	   └──────────────> BLOCKED <─────────────────────────┘
//
// BLOCKED and every intermediate state may reset to PENDING for
// re-orchestration; HANDED_OFF is terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the order is ready to orchestrate.
	Pending

	// ServiceabilityChecked indicates the route passed the serviceability gate.
	ServiceabilityChecked

	// SlaSet indicates a delivery promise has been written against the order.
	SlaSet

	// Allocated indicates the allocation engine produced a plan for the order.
	Allocated

	// PartnerSelected indicates every shipment-candidate has a recommended carrier.
	PartnerSelected

	// HandedOff indicates the order was handed to downstream execution.
	// This is the terminal state of orchestration.
	HandedOff

	// Blocked indicates orchestration stopped on an unrecoverable outcome,
	// such as a non-serviceable route or a rejected partial allocation.
	Blocked
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:               "UNKNOWN",
		Pending:               "PENDING",
		ServiceabilityChecked: "SERVICEABILITY_CHECKED",
		SlaSet:                "SLA_SET",
		Allocated:             "ALLOCATED",
		PartnerSelected:       "PARTNER_SELECTED",
		HandedOff:             "HANDED_OFF",
		Blocked:               "BLOCKED",
	}
}

// getTransitions returns the allowed transition table.
// A status maps to the set of statuses it may move to.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:               {ServiceabilityChecked, Blocked},
		ServiceabilityChecked: {SlaSet, Pending},
		SlaSet:                {Allocated, Pending},
		Allocated:             {PartnerSelected, Blocked, Pending},
		PartnerSelected:       {HandedOff, Pending},
		HandedOff:             {},
		Blocked:               {Pending},
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the machine-readable name of the status.
// Implements the fmt.Stringer interface and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StatusFromString parses a status from its string name.
// Used when restoring orders from persistence.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// CanTransitionTo reports whether moving from s to next is allowed
// by the transition table.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(getTransitions()[s], next)
}

// TransitionTo returns the next status if the transition is legal.
// Illegal transitions return a validation error and leave the caller's
// state untouched.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("transition %s -> %s is not allowed", s, next))
	}
	return next, nil
}

// IsTerminal reports whether no further orchestration transitions are possible.
func (s Status) IsTerminal() bool {
	return s == HandedOff
}
