// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderStatusQueryIsNotConstructed = errors.New(
		"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
	)
)

// GetOrderStatusQuery retrieves the consolidated view of one order: its
// orchestration state, delivery promise, the latest run with its decision
// trail, and the downstream execution timeline.
//
// Example:
//
//	query, err := NewGetOrderStatusQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetOrderStatusQueryHandler(db)
//
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order status: %w", err)
//	}
//
//	fmt.Printf("Order %s is %s\n", view.OrderID, view.Status)
type GetOrderStatusQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderStatusQuery creates a query for one order's consolidated status.
func NewGetOrderStatusQuery(orderID kernel.UUID) (GetOrderStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderStatusQuery{}, err
	}

	return GetOrderStatusQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderStatusQueryIsNotConstructed if validation fails.
func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

// OrderID returns the order being queried.
func (q GetOrderStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

// TrailStepView is one orchestration trail entry in the read model.
type TrailStepView struct {
	Step    string
	Success bool
}

// RunView summarizes the latest orchestration run of an order.
type RunView struct {
	RunID     kernel.UUID
	StartedAt time.Time
	Success   bool
	NextStep  string
	Trail     []TrailStepView
}

// MilestoneView is one downstream execution event in the read model.
type MilestoneView struct {
	Kind string
	At   time.Time
}

// GetOrderStatusQueryResponse is the consolidated order status read model.
// PromisedAt and TatDays are nil before the SLA step has run; LastRun is nil
// when the order was never orchestrated.
type GetOrderStatusQueryResponse struct {
	OrderID     kernel.UUID
	Status      string
	BlockReason string
	PromisedAt  *time.Time
	TatDays     *int
	LastRun     *RunView
	Milestones  []MilestoneView
}
