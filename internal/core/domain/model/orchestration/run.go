// Package orchestration provides the Run aggregate: the ordered, append-only
// record of per-step outcomes for one order's orchestration attempt (the
// orchestration trail), plus its overall result and downstream trigger.
//
// The Coordinator is the sole writer of a Run. A Run is created fresh per
// attempt and becomes immutable once completed; the status read model replays
// it joined with downstream execution events.
package orchestration

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrRunIsNotConstructed is returned when using an improperly initialized Run.
	ErrRunIsNotConstructed = errors.New("Run must be created via NewRun constructor")

	// ErrRunIsCompleted is returned when appending to or completing an already
	// completed run. A run is immutable once it ends.
	ErrRunIsCompleted = errors.New("orchestration run is already completed")
)

// Step identifies one component invocation in the orchestration trail.
type Step string

const (
	// StepConfigFetch is the boundary fetch of carrier/warehouse snapshots.
	// It appears in the trail only when the fetch fails.
	StepConfigFetch Step = "CONFIG_FETCH"
	// StepServiceabilityCheck is the route serviceability gate.
	StepServiceabilityCheck Step = "SERVICEABILITY_CHECK"
	// StepSlaCalculation computes the delivery promise.
	StepSlaCalculation Step = "SLA_CALCULATION"
	// StepAllocation produces the warehouse allocation plan.
	StepAllocation Step = "ALLOCATION"
	// StepPartnerSelection recommends a carrier per shipment-candidate.
	StepPartnerSelection Step = "PARTNER_SELECTION"
)

// NextStep is the downstream trigger emitted with a completed run.
type NextStep string

const (
	// NextStepPicklistGeneration hands the order to the picklist/label generator.
	NextStepPicklistGeneration NextStep = "PICKLIST_GENERATION"
	// NextStepManualReview routes partial or unresolved results to an operator.
	NextStepManualReview NextStep = "MANUAL_REVIEW"
	// NextStepNone means nothing is handed downstream (blocked runs).
	NextStepNone NextStep = "NONE"
)

// TrailEntry is one component invocation outcome: the step, its success flag,
// and the step's typed result payload.
type TrailEntry struct {
	Step    Step
	Success bool
	Data    any
}

// Run is the orchestration trail aggregate for one attempt over one order.
type Run struct {
	id        kernel.UUID
	orderID   kernel.UUID
	startedAt time.Time
	trail     []TrailEntry
	success   bool
	nextStep  NextStep
	completed bool

	guard guard.ConstructorGuard
}

// NewRun starts a fresh orchestration trail for an order.
func NewRun(orderID kernel.UUID, startedAt time.Time) (*Run, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if startedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("startedAt")
	}

	return &Run{
		id:        kernel.NewUUID(),
		orderID:   orderID,
		startedAt: startedAt,
		nextStep:  NextStepNone,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreRun reconstructs a completed run from persistence. Repositories only.
func RestoreRun(
	id kernel.UUID,
	orderID kernel.UUID,
	startedAt time.Time,
	trail []TrailEntry,
	success bool,
	nextStep NextStep,
) (*Run, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	run, err := NewRun(orderID, startedAt)
	if err != nil {
		return nil, err
	}

	run.id = id
	run.trail = trail
	run.success = success
	run.nextStep = nextStep
	run.completed = true
	return run, nil
}

// Validate ensures the run was created via NewRun.
func (r *Run) Validate() error {
	if r == nil {
		return ErrRunIsNotConstructed
	}
	return r.guard.Validate(ErrRunIsNotConstructed)
}

// ID returns the run's unique identifier (the orchestrationId of the result).
func (r *Run) ID() kernel.UUID {
	return r.id
}

// OrderID returns the order this run orchestrates.
func (r *Run) OrderID() kernel.UUID {
	return r.orderID
}

// StartedAt returns when the run started.
func (r *Run) StartedAt() time.Time {
	return r.startedAt
}

// Trail returns the ordered step outcomes recorded so far.
func (r *Run) Trail() []TrailEntry {
	return r.trail
}

// Success reports the overall outcome. Meaningful once completed.
func (r *Run) Success() bool {
	return r.success
}

// NextStep returns the downstream trigger. Meaningful once completed.
func (r *Run) NextStep() NextStep {
	return r.nextStep
}

// IsCompleted reports whether the run has ended and is immutable.
func (r *Run) IsCompleted() bool {
	return r.completed
}

// Append records one component invocation outcome on the trail.
func (r *Run) Append(step Step, success bool, data any) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.completed {
		return ErrRunIsCompleted
	}

	r.trail = append(r.trail, TrailEntry{Step: step, Success: success, Data: data})
	return nil
}

// Complete ends the run with its overall outcome and downstream trigger.
// The run is immutable afterwards.
func (r *Run) Complete(success bool, next NextStep) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.completed {
		return ErrRunIsCompleted
	}

	r.success = success
	r.nextStep = next
	r.completed = true
	return nil
}
