package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderStatusQueryHandler builds the consolidated order status view by
// joining the order row with its latest orchestration run and execution
// milestones. Reads bypass the aggregates for an optimized read model.
//
// Example:
//
//	handler := NewGetOrderStatusQueryHandler(db)
//	query, _ := NewGetOrderStatusQuery(orderID)
//
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get order status: %v", err)
//	    return err
//	}
type GetOrderStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderStatusQueryHandler creates a handler for order status queries.
// Requires a GORM database connection for query execution.
func NewGetOrderStatusQueryHandler(db *gorm.DB) GetOrderStatusQueryHandler {
	return GetOrderStatusQueryHandler{db: db}
}

// Handle executes the query and assembles the consolidated status view.
// Returns ObjectNotFoundError when the order does not exist.
func (h GetOrderStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatusQuery,
) (GetOrderStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	response, err := h.fetchOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	lastRun, err := h.fetchLastRun(ctx, query.OrderID())
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}
	response.LastRun = lastRun

	milestones, err := h.fetchMilestones(ctx, query.OrderID())
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}
	response.Milestones = milestones

	return response, nil
}

// fetchOrder reads the order row into the response skeleton.
func (h GetOrderStatusQueryHandler) fetchOrder(
	ctx context.Context, orderID kernel.UUID,
) (GetOrderStatusQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			block_reason,
			promised_at,
			tat_days
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	var (
		status      string
		blockReason sql.NullString
		promisedAt  sql.NullTime
		tatDays     sql.NullInt64
	)
	err := row.Scan(&status, &blockReason, &promisedAt, &tatDays)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderStatusQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return GetOrderStatusQueryResponse{}, err
	}

	response := GetOrderStatusQueryResponse{
		OrderID: orderID,
		Status:  status,
	}
	if blockReason.Valid {
		response.BlockReason = blockReason.String
	}
	if promisedAt.Valid {
		at := promisedAt.Time
		response.PromisedAt = &at
	}
	if tatDays.Valid {
		days := int(tatDays.Int64)
		response.TatDays = &days
	}
	return response, nil
}

// fetchLastRun reads the most recent run and its trail. Returns nil when the
// order was never orchestrated.
func (h GetOrderStatusQueryHandler) fetchLastRun(
	ctx context.Context, orderID kernel.UUID,
) (*RunView, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			started_at,
			success,
			next_step
		FROM orchestration_runs
		WHERE order_id = ?
		ORDER BY started_at DESC
		LIMIT 1
	`, orderID.Bytes()).Row()

	var (
		rawID     uuid.UUID
		startedAt time.Time
		success   bool
		nextStep  string
	)
	err := row.Scan(&rawID, &startedAt, &success, &nextStep)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	runID, err := kernel.UUIDFromBytes(rawID[:])
	if err != nil {
		return nil, err
	}

	view := &RunView{
		RunID:     runID,
		StartedAt: startedAt,
		Success:   success,
		NextStep:  nextStep,
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			step,
			success
		FROM orchestration_trail_entries
		WHERE run_id = ?
		ORDER BY seq
	`, rawID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry TrailStepView
		if err = rows.Scan(&entry.Step, &entry.Success); err != nil {
			return nil, err
		}
		view.Trail = append(view.Trail, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return view, nil
}

// fetchMilestones reads the downstream execution timeline in event order.
func (h GetOrderStatusQueryHandler) fetchMilestones(
	ctx context.Context, orderID kernel.UUID,
) ([]MilestoneView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			kind,
			at
		FROM order_milestones
		WHERE order_id = ?
		ORDER BY at
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	milestones := make([]MilestoneView, 0)
	for rows.Next() {
		var milestone MilestoneView
		if err = rows.Scan(&milestone.Kind, &milestone.At); err != nil {
			return nil, err
		}
		milestones = append(milestones, milestone)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return milestones, nil
}
