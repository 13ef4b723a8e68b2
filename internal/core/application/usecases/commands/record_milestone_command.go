package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRecordMilestoneCommandIsNotConstructed = errors.New(
		"RecordMilestoneCommand must be created via NewRecordMilestoneCommand constructor",
	)
	ErrMilestoneTimeIsRequired = errors.New("milestone time is required")
)

// RecordMilestoneCommand represents a downstream execution event reported
// against a handed-off order: picked, packed, dispatched, or delivered.
type RecordMilestoneCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	kind    string
	at      time.Time

	guard guard.ConstructorGuard
}

// NewRecordMilestoneCommand creates a command to record an execution
// milestone. The kind is validated by the handler against the known
// milestone names.
func NewRecordMilestoneCommand(orderID kernel.UUID, kind string, at time.Time) (RecordMilestoneCommand, error) {
	command := RecordMilestoneCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return RecordMilestoneCommand{}, err
	}
	if at.IsZero() {
		return RecordMilestoneCommand{}, ErrMilestoneTimeIsRequired
	}

	command.orderID = orderID
	command.kind = kind
	command.at = at

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRecordMilestoneCommandIsNotConstructed if validation fails.
func (c RecordMilestoneCommand) Validate() error {
	return c.guard.Validate(ErrRecordMilestoneCommandIsNotConstructed)
}

// OrderID returns the identifier of the order the milestone belongs to.
func (c RecordMilestoneCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Kind returns the milestone kind name.
func (c RecordMilestoneCommand) Kind() string {
	return c.kind
}

// At returns the time the milestone occurred.
func (c RecordMilestoneCommand) At() time.Time {
	return c.at
}
