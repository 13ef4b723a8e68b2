package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when using an improperly initialized Item.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError(
	"item must be created via NewItem constructor")

// Item is a value object representing one ordered line item:
// a SKU identifier and the requested quantity.
// Item is immutable; the zero value is invalid.
type Item struct { //nolint:recvcheck //using for validation
	skuID    string
	quantity int

	guard guard.ConstructorGuard
}

// NewItem creates a line item with a non-empty SKU identifier and a
// positive quantity. Returns a validation error otherwise.
func NewItem(skuID string, quantity int) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := item.setSkuID(skuID); err != nil {
		return Item{}, err
	}
	if err := item.setQuantity(quantity); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the item was created via NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// SkuID returns the SKU identifier of the line item.
func (i Item) SkuID() string {
	return i.skuID
}

// Quantity returns the requested quantity for the SKU.
func (i Item) Quantity() int {
	return i.quantity
}

func (i *Item) setSkuID(skuID string) error {
	if skuID == "" {
		return errs.NewValueIsRequiredError("skuID")
	}
	i.skuID = skuID
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
