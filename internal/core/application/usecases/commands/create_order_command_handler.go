package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order intake.
// Converts the wire-form command into a validated order aggregate in Pending
// status, ready for the orchestration loop to pick up.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	cmd, _ := NewCreateOrderCommand(orderID, items, "560034", nil,
//	    "STANDARD", "PREPAID", 0, 1.2, time.Now())
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now pending and awaiting orchestration
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order intake operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order intake command.
// Builds the domain aggregate from the wire values, enforcing pincode format,
// priority and payment mode names, and item validity. Uses a transaction so
// the order is fully persisted or not at all.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := buildOrder(cmd)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

func buildOrder(cmd CreateOrderCommand) (*order.Order, error) {
	destination, err := kernel.NewPincode(cmd.Destination())
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, len(cmd.Items()))
	for i, spec := range cmd.Items() {
		item, err := order.NewItem(spec.SkuID, spec.Quantity)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}

	priority, err := order.PriorityFromString(cmd.Priority())
	if err != nil {
		return nil, err
	}

	mode, err := order.PaymentModeFromString(cmd.PaymentMode())
	if err != nil {
		return nil, err
	}
	payment := order.NewPrepaidPayment()
	if mode == order.Cod {
		payment, err = order.NewCodPayment(cmd.CodAmount())
		if err != nil {
			return nil, err
		}
	}

	return order.NewOrder(
		cmd.OrderID(),
		items,
		destination,
		cmd.PreferredLocationID(),
		priority,
		payment,
		cmd.WeightKg(),
		cmd.PlacedAt(),
	)
}
