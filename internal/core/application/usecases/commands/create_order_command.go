package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one line item is required")
	ErrWeightIsInvalid  = errors.New("weight must be greater than 0")
)

// CreateOrderItem is one line item of an incoming order, still in wire form.
type CreateOrderItem struct {
	SkuID    string
	Quantity int
}

// CreateOrderCommand represents a request to register a new order for
// orchestration. Carries the order facts in wire form; the handler converts
// them to domain values.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, items, "560034", nil,
//	    "EXPRESS", "COD", 1499, 2.5, time.Now())
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID             kernel.UUID
	items               []CreateOrderItem
	destination         string
	preferredLocationID *kernel.UUID
	priority            string
	paymentMode         string
	codAmount           float64
	weightKg            float64
	placedAt            time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates shape only (non-empty items, positive weight, non-zero placement
// time); domain rules like pincode format are enforced by the handler when it
// builds the aggregate.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	items []CreateOrderItem,
	destination string,
	preferredLocationID *kernel.UUID,
	priority string,
	paymentMode string,
	codAmount float64,
	weightKg float64,
	placedAt time.Time,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setItems(items),
		orderCommand.setWeightKg(weightKg),
		orderCommand.setPlacedAt(placedAt),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	orderCommand.destination = destination
	orderCommand.preferredLocationID = preferredLocationID
	orderCommand.priority = priority
	orderCommand.paymentMode = paymentMode
	orderCommand.codAmount = codAmount

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Items returns the line items in wire form.
func (c CreateOrderCommand) Items() []CreateOrderItem {
	return c.items
}

// Destination returns the destination pincode string.
func (c CreateOrderCommand) Destination() string {
	return c.destination
}

// PreferredLocationID returns the optional home warehouse preference.
func (c CreateOrderCommand) PreferredLocationID() *kernel.UUID {
	return c.preferredLocationID
}

// Priority returns the priority class name.
func (c CreateOrderCommand) Priority() string {
	return c.priority
}

// PaymentMode returns the payment mode name.
func (c CreateOrderCommand) PaymentMode() string {
	return c.paymentMode
}

// CodAmount returns the cash to collect for COD orders.
func (c CreateOrderCommand) CodAmount() float64 {
	return c.codAmount
}

// WeightKg returns the parcel weight.
func (c CreateOrderCommand) WeightKg() float64 {
	return c.weightKg
}

// PlacedAt returns the order placement timestamp.
func (c CreateOrderCommand) PlacedAt() time.Time {
	return c.placedAt
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setItems(items []CreateOrderItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setWeightKg(weightKg float64) error {
	if weightKg <= 0 {
		return ErrWeightIsInvalid
	}

	c.weightKg = weightKg
	return nil
}

func (c *CreateOrderCommand) setPlacedAt(placedAt time.Time) error {
	if placedAt.IsZero() {
		return errors.New("placedAt is required")
	}

	c.placedAt = placedAt
	return nil
}
