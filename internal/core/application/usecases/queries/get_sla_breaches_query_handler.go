package queries

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/core/domain/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetSlaBreachesQueryHandler sweeps all promised undelivered orders through
// the SLA tracker and keeps those that are AT_RISK or BREACHED. Worst delay
// first, so the top of the list is always the most urgent promise.
type GetSlaBreachesQueryHandler struct {
	db      *gorm.DB
	tracker services.SlaTracker
	nowFn   func() time.Time
}

// NewGetSlaBreachesQueryHandler creates a handler for SLA breach queries.
// Requires a GORM database connection and the tracker holding the at-risk policy.
func NewGetSlaBreachesQueryHandler(db *gorm.DB, tracker services.SlaTracker) GetSlaBreachesQueryHandler {
	return GetSlaBreachesQueryHandler{db: db, tracker: tracker, nowFn: time.Now}
}

// Handle executes the query and derives a compliance snapshot per order.
// Returns an empty slice when every promise is on track.
func (h GetSlaBreachesQueryHandler) Handle(
	ctx context.Context,
	query GetSlaBreachesQuery,
) ([]GetSlaBreachesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.placed_at,
			o.promised_at,
			o.tat_days,
			MAX(m.at) AS last_milestone_at
		FROM orders o
		LEFT JOIN order_milestones m ON m.order_id = o.id
		WHERE o.promised_at IS NOT NULL
		  AND NOT EXISTS (
			SELECT 1 FROM order_milestones d
			WHERE d.order_id = o.id AND d.kind = ?
		  )
		GROUP BY o.id, o.placed_at, o.promised_at, o.tat_days
		ORDER BY o.promised_at
	`, order.Delivered.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := h.nowFn()
	breaches := make([]GetSlaBreachesQueryResponse, 0)

	for rows.Next() {
		var (
			id              uuid.UUID
			placedAt        time.Time
			promisedAt      time.Time
			tatDays         int
			lastMilestoneAt sql.NullTime
		)
		if err = rows.Scan(&id, &placedAt, &promisedAt, &tatDays, &lastMilestoneAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		decision, decisionErr := sla.NewDecision(promisedAt, tatDays)
		if decisionErr != nil {
			return nil, decisionErr
		}

		var milestoneAt *time.Time
		if lastMilestoneAt.Valid {
			at := lastMilestoneAt.Time
			milestoneAt = &at
		}

		snapshot, trackErr := h.tracker.Track(decision, placedAt, milestoneAt, nil, now)
		if trackErr != nil {
			return nil, trackErr
		}
		if snapshot.Status != sla.AtRisk && snapshot.Status != sla.Breached {
			continue
		}

		breaches = append(breaches, GetSlaBreachesQueryResponse{
			OrderID:      orderID,
			PromisedAt:   promisedAt,
			TatDays:      tatDays,
			Status:       snapshot.Status.String(),
			DelayMinutes: snapshot.DelayMinutes,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(breaches, func(a, b GetSlaBreachesQueryResponse) int {
		return cmp.Compare(b.DelayMinutes, a.DelayMinutes)
	})
	return breaches, nil
}
