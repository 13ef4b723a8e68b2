package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetSlaComplianceQueryIsNotConstructed = errors.New(
		"GetSlaComplianceQuery must be created via NewGetSlaComplianceQuery constructor",
	)
)

// GetSlaComplianceQuery retrieves the derived promise-compliance snapshot for
// one order: whether its delivery promise is on track, at risk, breached, or
// met, with the signed delay in minutes.
//
// Example:
//
//	query, err := NewGetSlaComplianceQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetSlaComplianceQueryHandler(db, tracker)
//
//	snapshot, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get SLA compliance: %w", err)
//	}
//
//	fmt.Printf("Order %s is %s\n", snapshot.OrderID, snapshot.Status)
type GetSlaComplianceQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetSlaComplianceQuery creates a query for one order's SLA compliance.
func NewGetSlaComplianceQuery(orderID kernel.UUID) (GetSlaComplianceQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetSlaComplianceQuery{}, err
	}

	return GetSlaComplianceQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetSlaComplianceQueryIsNotConstructed if validation fails.
func (q GetSlaComplianceQuery) Validate() error {
	return q.guard.Validate(ErrGetSlaComplianceQueryIsNotConstructed)
}

// OrderID returns the order being queried.
func (q GetSlaComplianceQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetSlaComplianceQueryResponse is the derived compliance read model.
// DelayMinutes is signed: zero or negative means ahead of or on schedule,
// positive means minutes past the promise.
type GetSlaComplianceQueryResponse struct {
	OrderID      kernel.UUID
	PromisedAt   time.Time
	TatDays      int
	Status       string
	DelayMinutes int
}
