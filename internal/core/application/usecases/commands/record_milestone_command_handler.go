package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// RecordMilestoneCommandHandler appends execution milestones to handed-off
// orders. Milestones feed SLA tracking: the DELIVERED milestone fixes the
// final MET or BREACHED verdict, intermediate ones reset the stall clock
// behind the AT_RISK signal.
type RecordMilestoneCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRecordMilestoneCommandHandler creates a handler for milestone recording.
func NewRecordMilestoneCommandHandler(uowFactory OrderUoWFactory) RecordMilestoneCommandHandler {
	return RecordMilestoneCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the milestone command.
// Returns ErrNoOrderFound when the order does not exist and
// order.ErrMilestoneBeforeHandOff when the order has not been handed off.
func (h RecordMilestoneCommandHandler) Handle(ctx context.Context, command RecordMilestoneCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	kind, err := order.MilestoneKindFromString(command.Kind())
	if err != nil {
		return err
	}
	milestone, err := order.NewMilestone(kind, command.At())
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

	ordersRepo := uow.OrderRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoOrderFound
	}
	if err != nil {
		return err
	}

	if err = aggregate.RecordMilestone(milestone); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
