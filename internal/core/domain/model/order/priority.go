package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Priority is the delivery priority class of an order.
// EXPRESS orders get an accelerated delivery promise.
type Priority int

const (
	// PriorityUnknown represents an invalid or undefined priority.
	PriorityUnknown Priority = iota
	// Standard is the default priority class.
	Standard
	// Express is the accelerated priority class.
	Express
)

// Validate checks if the Priority value is valid.
func (p Priority) Validate() error {
	if p != Standard && p != Express {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

// PriorityFromString parses a priority class from its string name.
func PriorityFromString(s string) (Priority, error) {
	switch s {
	case "STANDARD":
		return Standard, nil
	case "EXPRESS":
		return Express, nil
	default:
		return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%q is not a valid priority", s))
	}
}

// String returns the machine-readable name of the priority class.
func (p Priority) String() string {
	switch p {
	case Standard:
		return "STANDARD"
	case Express:
		return "EXPRESS"
	default:
		return "UNKNOWN"
	}
}
