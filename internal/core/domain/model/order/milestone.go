package order

import (
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrMilestoneIsNotConstructed is returned when using an improperly initialized Milestone.
var ErrMilestoneIsNotConstructed = errs.NewValueIsRequiredError(
	"milestone must be created via NewMilestone constructor")

// MilestoneKind enumerates the downstream execution events recorded against an order.
type MilestoneKind int

const (
	// MilestoneUnknown represents an invalid or undefined milestone kind.
	MilestoneUnknown MilestoneKind = iota
	// Picked means the warehouse picked the order's items.
	Picked
	// Packed means the parcel was packed.
	Packed
	// Dispatched means the parcel left the warehouse with the carrier.
	Dispatched
	// Delivered means the parcel reached the customer.
	Delivered
)

// Validate checks if the MilestoneKind value is valid.
func (k MilestoneKind) Validate() error {
	if k < Picked || k > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("milestoneKind",
			fmt.Errorf("%d is not a valid milestone kind", k))
	}
	return nil
}

// String returns the machine-readable name of the milestone kind.
func (k MilestoneKind) String() string {
	switch k {
	case Picked:
		return "PICKED"
	case Packed:
		return "PACKED"
	case Dispatched:
		return "DISPATCHED"
	case Delivered:
		return "DELIVERED"
	default:
		return "UNKNOWN"
	}
}

// MilestoneKindFromString parses a milestone kind from its string name.
func MilestoneKindFromString(s string) (MilestoneKind, error) {
	switch s {
	case "PICKED":
		return Picked, nil
	case "PACKED":
		return Packed, nil
	case "DISPATCHED":
		return Dispatched, nil
	case "DELIVERED":
		return Delivered, nil
	default:
		return MilestoneUnknown, errs.NewValueIsInvalidErrorWithCause("milestoneKind",
			fmt.Errorf("%q is not a valid milestone kind", s))
	}
}

// Milestone is a value object recording one downstream execution event
// (pick, pack, dispatch, delivery) with its timestamp. The SLA Tracker reads
// milestones as the order's live execution trajectory.
type Milestone struct { //nolint:recvcheck //using for validation
	kind MilestoneKind
	at   time.Time

	guard guard.ConstructorGuard
}

// NewMilestone creates a milestone of the given kind at the given time.
// The timestamp must be non-zero.
func NewMilestone(kind MilestoneKind, at time.Time) (Milestone, error) {
	if err := kind.Validate(); err != nil {
		return Milestone{}, err
	}
	if at.IsZero() {
		return Milestone{}, errs.NewValueIsRequiredError("milestone timestamp")
	}

	return Milestone{
		kind:  kind,
		at:    at,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the milestone was created via NewMilestone.
func (m Milestone) Validate() error {
	return m.guard.Validate(ErrMilestoneIsNotConstructed)
}

// Kind returns the milestone kind.
func (m Milestone) Kind() MilestoneKind {
	return m.kind
}

// At returns the timestamp of the execution event.
func (m Milestone) At() time.Time {
	return m.at
}
