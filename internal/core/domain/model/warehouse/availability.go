package warehouse

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// Availability is a point-in-time stock snapshot: available quantity per
// (location, SKU) pair. It is a read model, not a lock; the external
// inventory store may change between the snapshot and any reservation, so
// callers must pair allocation with an atomic reservation step against the
// authoritative store.
type Availability struct {
	stock map[string]map[string]int
}

// NewAvailability creates an empty stock snapshot.
func NewAvailability() *Availability {
	return &Availability{
		stock: make(map[string]map[string]int),
	}
}

// Set records the available quantity of a SKU at a location.
// Negative quantities are clamped to zero; the snapshot only ever answers
// "how many can be taken", never "how many are owed".
func (a *Availability) Set(locationID kernel.UUID, skuID string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}

	key := locationID.String()
	if a.stock[key] == nil {
		a.stock[key] = make(map[string]int)
	}
	a.stock[key][skuID] = quantity
}

// Get returns the available quantity of a SKU at a location.
// Unknown locations and SKUs report zero.
func (a *Availability) Get(locationID kernel.UUID, skuID string) int {
	return a.stock[locationID.String()][skuID]
}

// TotalFor returns the summed availability at a location over the given SKUs.
// Used as the stock tie-break when ranking candidate locations.
func (a *Availability) TotalFor(locationID kernel.UUID, skuIDs []string) int {
	total := 0
	for _, sku := range skuIDs {
		total += a.Get(locationID, sku)
	}
	return total
}
