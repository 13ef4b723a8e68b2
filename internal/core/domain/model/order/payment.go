package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrPaymentIsNotConstructed is returned when using an improperly initialized Payment.
var ErrPaymentIsNotConstructed = errs.NewValueIsRequiredError(
	"payment must be created via NewPrepaidPayment or NewCodPayment constructors")

// PaymentMode enumerates the supported payment modes.
type PaymentMode int

const (
	// PaymentModeUnknown represents an invalid or undefined payment mode.
	PaymentModeUnknown PaymentMode = iota
	// Prepaid means the order is already paid; no cash is collected at delivery.
	Prepaid
	// Cod means cash-on-delivery; the carrier must collect the COD amount.
	Cod
)

// Validate checks if the PaymentMode value is valid.
func (m PaymentMode) Validate() error {
	if m != Prepaid && m != Cod {
		return errs.NewValueIsInvalidErrorWithCause("paymentMode",
			fmt.Errorf("%d is not a valid payment mode", m))
	}
	return nil
}

// PaymentModeFromString parses a payment mode from its string name.
func PaymentModeFromString(s string) (PaymentMode, error) {
	switch s {
	case "PREPAID":
		return Prepaid, nil
	case "COD":
		return Cod, nil
	default:
		return PaymentModeUnknown, errs.NewValueIsInvalidErrorWithCause("paymentMode",
			fmt.Errorf("%q is not a valid payment mode", s))
	}
}

// String returns the machine-readable name of the payment mode.
func (m PaymentMode) String() string {
	switch m {
	case Prepaid:
		return "PREPAID"
	case Cod:
		return "COD"
	default:
		return "UNKNOWN"
	}
}

// Payment is a value object describing how an order is paid.
// COD payments carry the cash amount the carrier must collect at delivery;
// prepaid payments carry no amount. Payment is immutable; the zero value is invalid.
type Payment struct { //nolint:recvcheck //using for validation
	mode      PaymentMode
	codAmount float64

	guard guard.ConstructorGuard
}

// NewPrepaidPayment creates a prepaid payment.
func NewPrepaidPayment() Payment {
	return Payment{
		mode:  Prepaid,
		guard: guard.NewConstructorGuard(),
	}
}

// NewCodPayment creates a cash-on-delivery payment with the amount to collect.
// The amount must be positive.
func NewCodPayment(amount float64) (Payment, error) {
	if amount <= 0 {
		return Payment{}, errs.NewValueIsInvalidErrorWithCause("codAmount",
			fmt.Errorf("%v is not greater than 0", amount))
	}

	return Payment{
		mode:      Cod,
		codAmount: amount,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the payment was created via a constructor.
func (p Payment) Validate() error {
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

// Mode returns the payment mode.
func (p Payment) Mode() PaymentMode {
	return p.mode
}

// IsCod reports whether cash must be collected at delivery.
func (p Payment) IsCod() bool {
	return p.mode == Cod
}

// CodAmount returns the cash-to-collect amount. Zero for prepaid payments.
func (p Payment) CodAmount() float64 {
	return p.codAmount
}
