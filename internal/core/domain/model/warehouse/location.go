// Package warehouse provides the read-side domain model of the multi-warehouse
// network: locations and the stock availability snapshot consumed by the
// allocation engine. The external inventory store is authoritative; this model
// only represents point-in-time snapshots of it.
package warehouse

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrLocationIsNotConstructed is returned when using an improperly initialized Location.
var ErrLocationIsNotConstructed = errors.New("Location must be created via NewLocation constructor")

// Location is a warehouse in the fulfillment network.
// It is an entity identified by its UUID, with the postal code used for
// proximity ranking and an active flag gating allocation eligibility.
type Location struct { //nolint:recvcheck //using for validation
	id      kernel.UUID
	name    string
	pincode kernel.Pincode
	active  bool

	guard guard.ConstructorGuard
}

// NewLocation creates a warehouse location.
// The identifier and pincode must be valid and the name non-empty.
func NewLocation(id kernel.UUID, name string, pincode kernel.Pincode, active bool) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		loc.setID(id),
		loc.setName(name),
		loc.setPincode(pincode),
	); err != nil {
		return Location{}, err
	}

	loc.active = active
	return loc, nil
}

// Validate ensures the location was created via NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// ID returns the location's unique identifier.
func (l Location) ID() kernel.UUID {
	return l.id
}

// Name returns the human-readable warehouse name.
func (l Location) Name() string {
	return l.name
}

// Pincode returns the warehouse's postal code.
func (l Location) Pincode() kernel.Pincode {
	return l.pincode
}

// IsActive reports whether the location participates in allocation.
func (l Location) IsActive() bool {
	return l.active
}

// IsEqual compares two locations by their unique identifiers.
func (l Location) IsEqual(other Location) bool {
	return l.id.IsEqual(other.id)
}

func (l *Location) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Location) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	l.name = name
	return nil
}

func (l *Location) setPincode(pincode kernel.Pincode) error {
	if err := pincode.Validate(); err != nil {
		return err
	}
	l.pincode = pincode
	return nil
}
