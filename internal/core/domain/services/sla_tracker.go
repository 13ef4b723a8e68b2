package services

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/pkg/errs"
)

// SlaTracker derives promise-compliance snapshots from a stored SLA decision
// and the order's execution timestamps. It is purely derived state: tracking
// never mutates the decision, and re-querying with the same inputs yields the
// same snapshot.
//
// Status rules:
//   - MET: delivered at or before the promise.
//   - BREACHED: past the promise without delivery, or delivered late.
//   - AT_RISK: not yet due, but the time elapsed since the last execution
//     milestone (or placement, when none exist) exceeds the configured
//     fraction of the remaining budget.
//   - ON_TRACK: not yet due and within the risk threshold.
//
// DelayMinutes is signed: zero or negative means ahead of or on schedule,
// positive means minutes past the promise.
type SlaTracker struct {
	atRiskFraction float64
}

// NewSlaTracker creates a tracker. atRiskFraction is the share of the
// remaining budget that stalled execution may consume before the order is
// flagged AT_RISK; it must be in (0..1].
func NewSlaTracker(atRiskFraction float64) (SlaTracker, error) {
	if atRiskFraction <= 0 || atRiskFraction > 1 {
		return SlaTracker{}, errs.NewValueIsInvalidErrorWithCause("atRiskFraction",
			fmt.Errorf("%v is not in (0..1]", atRiskFraction))
	}

	return SlaTracker{atRiskFraction: atRiskFraction}, nil
}

// Track computes the compliance snapshot for one order.
//
// Parameters:
//   - decision: the stored delivery promise
//   - placedAt: order placement time, the trajectory reference when no
//     milestone has been recorded yet
//   - lastMilestoneAt: most recent execution milestone, nil if none
//   - deliveredAt: delivery time, nil while undelivered
//   - now: evaluation time, supplied by the caller for determinism
func (t SlaTracker) Track(
	decision sla.Decision,
	placedAt time.Time,
	lastMilestoneAt *time.Time,
	deliveredAt *time.Time,
	now time.Time,
) (sla.Snapshot, error) {
	if err := decision.Validate(); err != nil {
		return sla.Snapshot{}, err
	}
	if placedAt.IsZero() {
		return sla.Snapshot{}, errs.NewValueIsRequiredError("placedAt")
	}
	if now.IsZero() {
		return sla.Snapshot{}, errs.NewValueIsRequiredError("now")
	}

	promisedAt := decision.PromisedAt()

	if deliveredAt != nil {
		delay := int(deliveredAt.Sub(promisedAt).Minutes())
		if deliveredAt.After(promisedAt) {
			return sla.Snapshot{Status: sla.Breached, DelayMinutes: delay}, nil
		}
		return sla.Snapshot{Status: sla.Met, DelayMinutes: delay}, nil
	}

	if now.After(promisedAt) {
		return sla.Snapshot{
			Status:       sla.Breached,
			DelayMinutes: int(now.Sub(promisedAt).Minutes()),
		}, nil
	}

	remaining := promisedAt.Sub(now)
	reference := placedAt
	if lastMilestoneAt != nil {
		reference = *lastMilestoneAt
	}
	sinceLastProgress := now.Sub(reference)

	status := sla.OnTrack
	if sinceLastProgress > time.Duration(t.atRiskFraction*float64(remaining)) {
		status = sla.AtRisk
	}

	return sla.Snapshot{
		Status:       status,
		DelayMinutes: -int(remaining.Minutes()),
	}, nil
}
