package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetSlaComplianceQueryHandler reads the order's stored promise and execution
// timestamps and asks the SLA tracker for the derived snapshot. The snapshot
// is never stored; every query re-derives it against the current time.
//
// Example:
//
//	tracker, _ := services.NewSlaTracker(0.5)
//	handler := NewGetSlaComplianceQueryHandler(db, tracker)
//	query, _ := NewGetSlaComplianceQuery(orderID)
//
//	snapshot, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get SLA compliance: %v", err)
//	    return err
//	}
type GetSlaComplianceQueryHandler struct {
	db      *gorm.DB
	tracker services.SlaTracker
	nowFn   func() time.Time
}

// NewGetSlaComplianceQueryHandler creates a handler for SLA compliance queries.
// Requires a GORM database connection and the tracker holding the at-risk policy.
func NewGetSlaComplianceQueryHandler(db *gorm.DB, tracker services.SlaTracker) GetSlaComplianceQueryHandler {
	return GetSlaComplianceQueryHandler{db: db, tracker: tracker, nowFn: time.Now}
}

// Handle executes the query and derives the compliance snapshot.
// Returns ObjectNotFoundError when the order does not exist or carries no
// delivery promise yet.
func (h GetSlaComplianceQueryHandler) Handle(
	ctx context.Context,
	query GetSlaComplianceQuery,
) (GetSlaComplianceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetSlaComplianceQueryResponse{}, err
	}

	orderID := query.OrderID()
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			placed_at,
			promised_at,
			tat_days
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	var (
		placedAt   time.Time
		promisedAt sql.NullTime
		tatDays    sql.NullInt64
	)
	err := row.Scan(&placedAt, &promisedAt, &tatDays)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetSlaComplianceQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return GetSlaComplianceQueryResponse{}, err
	}
	if !promisedAt.Valid || !tatDays.Valid {
		return GetSlaComplianceQueryResponse{}, errs.NewObjectNotFoundError(
			"delivery promise", orderID.String())
	}

	decision, err := sla.NewDecision(promisedAt.Time, int(tatDays.Int64))
	if err != nil {
		return GetSlaComplianceQueryResponse{}, err
	}

	lastMilestoneAt, deliveredAt, err := h.fetchExecutionTimestamps(ctx, orderID)
	if err != nil {
		return GetSlaComplianceQueryResponse{}, err
	}

	snapshot, err := h.tracker.Track(decision, placedAt, lastMilestoneAt, deliveredAt, h.nowFn())
	if err != nil {
		return GetSlaComplianceQueryResponse{}, err
	}

	return GetSlaComplianceQueryResponse{
		OrderID:      orderID,
		PromisedAt:   promisedAt.Time,
		TatDays:      int(tatDays.Int64),
		Status:       snapshot.Status.String(),
		DelayMinutes: snapshot.DelayMinutes,
	}, nil
}

// fetchExecutionTimestamps reads the latest milestone time and the delivery
// time, either of which may be absent.
func (h GetSlaComplianceQueryHandler) fetchExecutionTimestamps(
	ctx context.Context, orderID kernel.UUID,
) (lastMilestoneAt, deliveredAt *time.Time, err error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			kind,
			at
		FROM order_milestones
		WHERE order_id = ?
		ORDER BY at
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind string
			at   time.Time
		)
		if err = rows.Scan(&kind, &at); err != nil {
			return nil, nil, err
		}

		milestoneAt := at
		if lastMilestoneAt == nil || milestoneAt.After(*lastMilestoneAt) {
			lastMilestoneAt = &milestoneAt
		}
		if kind == order.Delivered.String() {
			deliveredAt = &milestoneAt
		}
	}
	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return lastMilestoneAt, deliveredAt, nil
}
