package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetSlaBreachesQueryIsNotConstructed = errors.New(
	"GetSlaBreachesQuery must be created via NewGetSlaBreachesQuery constructor",
)

// GetSlaBreachesQuery retrieves every undelivered order whose delivery promise
// is breached or at risk. This is the monitoring read behind operational
// dashboards; ON_TRACK orders are filtered out.
//
// Example:
//
//	query := NewGetSlaBreachesQuery()
//	handler := NewGetSlaBreachesQueryHandler(db, tracker)
//
//	breaches, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve SLA breaches: %w", err)
//	}
type GetSlaBreachesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetSlaBreachesQuery creates a query for the SLA breach list.
// This is a parameterless query over all promised undelivered orders.
func NewGetSlaBreachesQuery() GetSlaBreachesQuery {
	return GetSlaBreachesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetSlaBreachesQuery) Validate() error {
	return q.guard.Validate(ErrGetSlaBreachesQueryIsNotConstructed)
}

// GetSlaBreachesQueryResponse is one endangered promise in the read model.
type GetSlaBreachesQueryResponse struct {
	OrderID      kernel.UUID
	PromisedAt   time.Time
	TatDays      int
	Status       string
	DelayMinutes int
}
