package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsHandedOff is returned when attempting to re-orchestrate an order
	// that was already handed to downstream execution.
	ErrOrderIsHandedOff = errors.New("order is already handed off and cannot be re-orchestrated")

	// ErrMilestoneBeforeHandOff is returned when recording an execution milestone
	// against an order that has not been handed off yet.
	ErrMilestoneBeforeHandOff = errors.New("milestones can only be recorded after handoff")
)

// Order is the order-for-orchestration projection: the immutable facts of one
// customer order (line items, destination, payment, priority, weight, placement
// time) together with the mutable orchestration state written against it
// (status, delivery promise, execution milestones, block reason).
//
// Order follows these invariants:
//   - Must have a valid unique identifier and destination pincode
//   - Must have at least one line item; every item has a positive quantity
//   - Weight must be positive
//   - Status transitions follow the table in Status
//   - COD orders carry a positive cash-to-collect amount
//   - Can only be created through NewOrder or restored through RestoreOrder
//
// The ordered facts are immutable once orchestration starts for a run;
// a new run is a new logical attempt over the same facts.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// items are the ordered line items (SKU, quantity)
	items []Item

	// destination is the delivery destination postal code
	destination kernel.Pincode

	// preferredLocationID is the optional home warehouse preference (nil if none)
	preferredLocationID *kernel.UUID

	// priority is the delivery priority class
	priority Priority

	// payment describes the payment mode and any COD amount
	payment Payment

	// weightKg is the declared or estimated parcel weight
	weightKg float64

	// placedAt is the order placement timestamp
	placedAt time.Time

	// status is the current orchestration state
	status Status

	// promise is the SLA decision written by orchestration (nil before SLA_SET)
	promise *sla.Decision

	// milestones are downstream execution events recorded after handoff
	milestones []Milestone

	// blockReason is the machine-readable reason when status is Blocked
	blockReason string

	// isConstructed ensures the order was created via NewOrder or RestoreOrder
	isConstructed bool
}

// NewOrder creates an order-for-orchestration in Pending status.
//
// Parameters:
//   - id: unique order identifier (must be a valid UUID)
//   - items: ordered line items (at least one, each constructed via NewItem)
//   - destination: destination pincode (constructed via NewPincode)
//   - preferredLocationID: optional home warehouse preference (may be nil)
//   - priority: STANDARD or EXPRESS
//   - payment: prepaid or COD payment
//   - weightKg: parcel weight, must be positive
//   - placedAt: placement timestamp, must be non-zero
func NewOrder(
	id kernel.UUID,
	items []Item,
	destination kernel.Pincode,
	preferredLocationID *kernel.UUID,
	priority Priority,
	payment Payment,
	weightKg float64,
	placedAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setItems(items),
		o.setDestination(destination),
		o.setPreferredLocationID(preferredLocationID),
		o.setPriority(priority),
		o.setPayment(payment),
		o.setWeightKg(weightKg),
		o.setPlacedAt(placedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence, including its
// orchestration state. Used by repositories only; validates the same
// invariants as NewOrder plus status consistency.
func RestoreOrder(
	id kernel.UUID,
	items []Item,
	destination kernel.Pincode,
	preferredLocationID *kernel.UUID,
	priority Priority,
	payment Payment,
	weightKg float64,
	placedAt time.Time,
	status Status,
	promise *sla.Decision,
	milestones []Milestone,
	blockReason string,
) (*Order, error) {
	o, err := NewOrder(id, items, destination, preferredLocationID, priority, payment, weightKg, placedAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if promise != nil {
		if err = promise.Validate(); err != nil {
			return nil, err
		}
	}
	for _, m := range milestones {
		if err = m.Validate(); err != nil {
			return nil, err
		}
	}

	o.status = status
	o.promise = promise
	o.milestones = milestones
	o.blockReason = blockReason
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Items returns the ordered line items.
func (o *Order) Items() []Item {
	return o.items
}

// Destination returns the delivery destination pincode.
func (o *Order) Destination() kernel.Pincode {
	return o.destination
}

// PreferredLocationID returns the home warehouse preference.
// Returns nil when the order carries no preference.
func (o *Order) PreferredLocationID() *kernel.UUID {
	return o.preferredLocationID
}

// Priority returns the delivery priority class.
func (o *Order) Priority() Priority {
	return o.priority
}

// Payment returns the payment details.
func (o *Order) Payment() Payment {
	return o.payment
}

// WeightKg returns the declared parcel weight.
func (o *Order) WeightKg() float64 {
	return o.weightKg
}

// PlacedAt returns the placement timestamp.
func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

// Status returns the current orchestration state.
func (o *Order) Status() Status {
	return o.status
}

// Promise returns the SLA decision written against the order.
// Returns nil before the SLA step has run.
func (o *Order) Promise() *sla.Decision {
	return o.promise
}

// Milestones returns the recorded execution milestones in recording order.
func (o *Order) Milestones() []Milestone {
	return o.milestones
}

// BlockReason returns the machine-readable reason the order was blocked.
// Empty unless the order is in Blocked status.
func (o *Order) BlockReason() string {
	return o.blockReason
}

// BeginOrchestration resets the order to Pending for a fresh orchestration run.
// Allowed from any state except HandedOff; a handed-off order belongs to
// downstream execution. The previous promise is kept until recalculated.
func (o *Order) BeginOrchestration() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status == HandedOff {
		return ErrOrderIsHandedOff
	}
	if o.status == Pending {
		return nil
	}

	next, err := o.status.TransitionTo(Pending)
	if err != nil {
		return err
	}

	o.status = next
	o.blockReason = ""
	return nil
}

// MarkServiceabilityChecked records that the route passed the serviceability gate.
func (o *Order) MarkServiceabilityChecked() error {
	return o.transition(ServiceabilityChecked)
}

// SetPromise writes the SLA decision against the order and moves it to SlaSet.
// The decision becomes the comparison baseline for the SLA Tracker.
func (o *Order) SetPromise(decision sla.Decision) error {
	if err := decision.Validate(); err != nil {
		return err
	}
	if err := o.transition(SlaSet); err != nil {
		return err
	}

	o.promise = &decision
	return nil
}

// MarkAllocated records that the allocation engine produced a plan.
func (o *Order) MarkAllocated() error {
	return o.transition(Allocated)
}

// MarkPartnerSelected records that every shipment-candidate has a recommended carrier.
func (o *Order) MarkPartnerSelected() error {
	return o.transition(PartnerSelected)
}

// HandOff marks the order as handed to downstream execution. Terminal.
func (o *Order) HandOff() error {
	return o.transition(HandedOff)
}

// Block moves the order to the terminal Blocked state with a machine-readable
// reason code. Allowed from Pending (non-serviceable route) and Allocated
// (allocation failed with no partial-fulfillment policy).
func (o *Order) Block(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("block reason")
	}
	if err := o.transition(Blocked); err != nil {
		return err
	}

	o.blockReason = reason
	return nil
}

// RecordMilestone appends a downstream execution event to the order.
// Milestones are only recordable after handoff and must not precede placement.
func (o *Order) RecordMilestone(m Milestone) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if o.status != HandedOff {
		return ErrMilestoneBeforeHandOff
	}
	if m.At().Before(o.placedAt) {
		return errs.NewValueIsInvalidErrorWithCause("milestone timestamp",
			fmt.Errorf("%s precedes order placement %s", m.At(), o.placedAt))
	}

	o.milestones = append(o.milestones, m)
	return nil
}

// DeliveredAt returns the DELIVERED milestone timestamp, or nil if the order
// has not been delivered.
func (o *Order) DeliveredAt() *time.Time {
	for _, m := range o.milestones {
		if m.Kind() == Delivered {
			at := m.At()
			return &at
		}
	}
	return nil
}

// LastMilestoneAt returns the timestamp of the most recent execution milestone,
// or nil when none have been recorded.
func (o *Order) LastMilestoneAt() *time.Time {
	var last *time.Time
	for _, m := range o.milestones {
		at := m.At()
		if last == nil || at.After(*last) {
			last = &at
		}
	}
	return last
}

// transition moves the order to the next status through the transition table.
func (o *Order) transition(next Status) error {
	if err := o.Validate(); err != nil {
		return err
	}

	s, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = s
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.SkuID()]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("duplicate SKU %q", item.SkuID()))
		}
		seen[item.SkuID()] = struct{}{}
	}

	o.items = items
	return nil
}

func (o *Order) setDestination(destination kernel.Pincode) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	o.destination = destination
	return nil
}

func (o *Order) setPreferredLocationID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return err
	}
	o.preferredLocationID = id
	return nil
}

func (o *Order) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}

func (o *Order) setPayment(payment Payment) error {
	if err := payment.Validate(); err != nil {
		return err
	}
	o.payment = payment
	return nil
}

func (o *Order) setWeightKg(weightKg float64) error {
	if weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg",
			fmt.Errorf("%v is not greater than 0", weightKg))
	}
	o.weightKg = weightKg
	return nil
}

func (o *Order) setPlacedAt(placedAt time.Time) error {
	if placedAt.IsZero() {
		return errs.NewValueIsRequiredError("placedAt")
	}
	o.placedAt = placedAt
	return nil
}
