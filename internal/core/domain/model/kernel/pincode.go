package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// PincodeLength is the mandated number of digits in a postal code.
// The carrier network operates on fixed-length six-digit codes.
const PincodeLength = 6

// ErrPincodeIsNotConstructed is returned when attempting to use an improperly
// initialized Pincode. Pincodes must be created via the NewPincode constructor.
var ErrPincodeIsNotConstructed = errs.NewValueIsRequiredError(
	"pincode must be created via NewPincode constructor")

// Pincode represents a validated postal code in the carrier network.
// It is an immutable value object; the zero value is invalid and fails validation.
//
// Pincode exposes SharedPrefixLen as the proximity primitive: postal codes are
// hierarchical, so the longer the common prefix of two codes, the closer the two
// points are in the logistics network. Six shared digits is the same locality,
// zero shared digits is the opposite end of the network.
//
// Example:
//
//	origin, err := kernel.NewPincode("560001")
//	if err != nil {
//	    // handle validation error
//	}
//	dest, _ := kernel.NewPincode("560034")
//	origin.SharedPrefixLen(dest) // 4, same city
type Pincode struct { //nolint:recvcheck //using for validation
	code  string
	guard guard.ConstructorGuard
}

// NewPincode creates a Pincode from its string representation.
// The code must be exactly PincodeLength characters, all ASCII digits.
// Returns an error for malformed input; a malformed pincode is a caller
// error, never a serviceability outcome.
func NewPincode(code string) (Pincode, error) {
	p := Pincode{
		guard: guard.NewConstructorGuard(),
	}

	if err := p.setCode(code); err != nil {
		return Pincode{}, err
	}

	return p, nil
}

// Validate checks if the Pincode was properly constructed via NewPincode.
// Returns ErrPincodeIsNotConstructed for zero-value instances.
func (p Pincode) Validate() error {
	return p.guard.Validate(ErrPincodeIsNotConstructed)
}

// String returns the six-digit code. Implements fmt.Stringer.
func (p Pincode) String() string {
	return p.code
}

// IsEqual compares two pincodes for equality.
// Both pincodes must be properly constructed for the comparison to succeed.
func (p Pincode) IsEqual(other Pincode) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if err := other.Validate(); err != nil {
		return false, err
	}

	return p.code == other.code, nil
}

// SharedPrefixLen returns the number of leading digits the two pincodes share,
// in the range [0..PincodeLength]. Larger values mean the codes are closer in
// the postal hierarchy. Both pincodes must be properly constructed.
func (p Pincode) SharedPrefixLen(other Pincode) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := other.Validate(); err != nil {
		return 0, err
	}

	n := 0
	for n < PincodeLength && p.code[n] == other.code[n] {
		n++
	}
	return n, nil
}

// setCode validates and sets the postal code.
// Note: pointer receiver for self-encapsulated validation during construction,
// consistent with the other value objects in this package.
func (p *Pincode) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("pincode")
	}
	if len(code) != PincodeLength {
		return errs.NewValueIsInvalidErrorWithCause("pincode",
			fmt.Errorf("%q is not %d characters long", code, PincodeLength))
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return errs.NewValueIsInvalidErrorWithCause("pincode",
				fmt.Errorf("%q contains a non-digit character", code))
		}
	}

	p.code = code
	return nil
}
