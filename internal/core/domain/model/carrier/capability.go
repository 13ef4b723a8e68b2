// Package carrier provides the domain model of carrier capabilities:
// what a transporter can do on a specific route (COD support, rates, transit
// time) and which side of the route its coverage spans. Capabilities are
// snapshots of external carrier configuration, recomputed per call.
package carrier

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrCapabilityIsNotConstructed is returned when using an improperly initialized Capability.
var ErrCapabilityIsNotConstructed = errors.New("Capability must be created via NewCapability constructor")

// Capability describes one carrier's offer on one route: its code, whether it
// can collect cash at delivery, its rate function (flat base plus per-kg), and
// the estimated transit time in days. Immutable value object.
type Capability struct { //nolint:recvcheck //using for validation
	code        string
	supportsCod bool
	baseRate    float64
	perKgRate   float64
	tatDays     int

	guard guard.ConstructorGuard
}

// NewCapability creates a carrier capability for a route.
// The code must be non-empty, rates non-negative, and tatDays at least 1.
func NewCapability(code string, supportsCod bool, baseRate, perKgRate float64, tatDays int) (Capability, error) {
	c := Capability{
		supportsCod: supportsCod,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setCode(code),
		c.setRates(baseRate, perKgRate),
		c.setTatDays(tatDays),
	); err != nil {
		return Capability{}, err
	}

	return c, nil
}

// Validate ensures the capability was created via NewCapability.
func (c Capability) Validate() error {
	return c.guard.Validate(ErrCapabilityIsNotConstructed)
}

// Code returns the carrier code.
func (c Capability) Code() string {
	return c.code
}

// SupportsCod reports whether the carrier can collect cash at delivery on this route.
func (c Capability) SupportsCod() bool {
	return c.supportsCod
}

// TatDays returns the estimated transit time in days for this route.
func (c Capability) TatDays() int {
	return c.tatDays
}

// RateFor returns the shipping rate for a parcel of the given weight:
// the route's flat base rate plus the per-kg rate times the weight.
func (c Capability) RateFor(weightKg float64) float64 {
	return c.baseRate + c.perKgRate*weightKg
}

func (c *Capability) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("carrier code")
	}
	c.code = code
	return nil
}

func (c *Capability) setRates(baseRate, perKgRate float64) error {
	if baseRate < 0 {
		return errs.NewValueIsInvalidErrorWithCause("baseRate",
			fmt.Errorf("%v is negative", baseRate))
	}
	if perKgRate < 0 {
		return errs.NewValueIsInvalidErrorWithCause("perKgRate",
			fmt.Errorf("%v is negative", perKgRate))
	}
	c.baseRate = baseRate
	c.perKgRate = perKgRate
	return nil
}

func (c *Capability) setTatDays(tatDays int) error {
	if tatDays < 1 {
		return errs.NewValueIsInvalidErrorWithCause("tatDays",
			fmt.Errorf("%d is not greater than 0", tatDays))
	}
	c.tatDays = tatDays
	return nil
}
