package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrOrchestrateOrderCommandIsNotConstructed = errors.New(
	"OrchestrateOrderCommand must be created via NewOrchestrateOrderCommand constructor",
)

// OrchestrateOrderCommand represents a request to run the orchestration
// pipeline for one order. Safe to issue repeatedly: a blocked or reset order
// gets a fresh run, a handed-off order is rejected.
type OrchestrateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewOrchestrateOrderCommand creates a command to orchestrate the given order.
func NewOrchestrateOrderCommand(orderID kernel.UUID) (OrchestrateOrderCommand, error) {
	command := OrchestrateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return OrchestrateOrderCommand{}, err
	}
	command.orderID = orderID

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrOrchestrateOrderCommandIsNotConstructed if validation fails.
func (c OrchestrateOrderCommand) Validate() error {
	return c.guard.Validate(ErrOrchestrateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to orchestrate.
func (c OrchestrateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
