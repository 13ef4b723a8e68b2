package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/warehouse"
	"fulfillment/internal/pkg/errs"
)

// ErrAllocationInvariantViolated indicates the engine produced a plan that
// breaks its own guarantees (hop budget exceeded, quantity sums wrong).
// This is a bug, not a business outcome: the run must abort and nothing may
// be handed downstream.
var ErrAllocationInvariantViolated = errors.New("allocation plan violates an invariant")

// AllocationStrategy labels which path the allocation took.
type AllocationStrategy string

const (
	// StrategySingleLocation means one warehouse covers the whole order.
	StrategySingleLocation AllocationStrategy = "SINGLE_LOCATION"
	// StrategyHoppedSplit means the order ships from multiple warehouses.
	StrategyHoppedSplit AllocationStrategy = "HOPPED_SPLIT"
	// StrategyPartialUnfulfilled means demand could not be fully covered
	// within the hop budget.
	StrategyPartialUnfulfilled AllocationStrategy = "PARTIAL_UNFULFILLED"
)

// AllocationConfig controls the hopping behavior of one allocation.
type AllocationConfig struct {
	// EnableHopping allows warehouses beyond the first to contribute stock.
	EnableHopping bool
	// MaxHops is the number of additional warehouses allowed beyond the first.
	MaxHops int
}

// AllocationRequest is the input to one allocation: the demand to cover and
// where it must go.
type AllocationRequest struct {
	OrderID             kernel.UUID
	Items               []order.Item
	Destination         kernel.Pincode
	PreferredLocationID *kernel.UUID
}

// Assignment is one location's portion of the plan: the shipment-candidate
// that becomes one physical parcel.
type Assignment struct {
	LocationID kernel.UUID
	Items      []order.Item
}

// AllocationResult is the outcome of one allocation run.
//
// Invariants (checked before return, violations abort):
//   - the per-SKU sum over the plan never exceeds the requested quantity,
//     and equals it exactly when Success is true
//   - the plan never spans more than 1+MaxHops locations
type AllocationResult struct {
	Success       bool
	Strategy      AllocationStrategy
	TotalHops     int
	SplitRequired bool
	Plan          []Assignment
	// Shortfall lists the unmet remainder per SKU when Success is false.
	Shortfall []order.Item
}

// AllocationEngine searches candidate warehouses for stock to cover an
// order's line items, hopping to additional locations when the preferred one
// cannot fully satisfy demand.
//
// The engine is a read-then-decide computation over a stock snapshot: it does
// not reserve inventory. Callers must pair it with an atomic reservation step
// against the authoritative store, otherwise two concurrent orders can both
// claim the same last unit.
type AllocationEngine struct {
	ranker LocationRanker
}

// NewAllocationEngine creates an engine using the given hop-ordering strategy.
func NewAllocationEngine(ranker LocationRanker) (AllocationEngine, error) {
	if ranker == nil {
		return AllocationEngine{}, errs.NewValueIsRequiredError("ranker")
	}
	return AllocationEngine{ranker: ranker}, nil
}

// Allocate computes a location→item-quantity plan for the request.
//
// The preferred location, when given, is tried first; remaining demand is
// then covered greedily from the ranker's best-first candidate order, bounded
// by the hop budget. Each non-preferred location drawn on counts as a hop,
// whether or not the preferred one contributed anything. When no preference
// is given, the best-ranked contributing location becomes the first location
// and only the rest count as hops.
//
// Full coverage within budget yields Success=true; otherwise the partial plan
// is returned with Success=false and the unmet remainder in Shortfall;
// whether a short shipment is acceptable is the caller's policy, not the
// engine's.
func (e AllocationEngine) Allocate(
	req AllocationRequest,
	cfg AllocationConfig,
	locations []warehouse.Location,
	stock *warehouse.Availability,
) (AllocationResult, error) {
	if err := e.validateRequest(req, cfg, stock); err != nil {
		return AllocationResult{}, err
	}

	skuIDs := make([]string, len(req.Items))
	remaining := make(map[string]int, len(req.Items))
	for i, item := range req.Items {
		skuIDs[i] = item.SkuID()
		remaining[item.SkuID()] = item.Quantity()
	}

	hopBudget := 0
	if cfg.EnableHopping {
		hopBudget = cfg.MaxHops
	}

	// With a preference, every other location is a hop even when the
	// preferred one contributes nothing: MaxHops=0 pins the order to the
	// preferred warehouse. Without a preference the first contributing
	// location is free and only the rest count against the budget.
	otherBudget := 1 + hopBudget
	if req.PreferredLocationID != nil {
		otherBudget = hopBudget
	}
	maxLocations := 1 + hopBudget

	var plan []Assignment

	candidates := make([]LocationCandidate, 0, len(locations))
	for _, loc := range locations {
		if err := loc.Validate(); err != nil {
			return AllocationResult{}, err
		}
		if !loc.IsActive() {
			continue
		}

		if req.PreferredLocationID != nil && loc.ID().IsEqual(*req.PreferredLocationID) {
			// Preferred location is tried first and never competes in the ranking.
			if assignment, ok := take(loc.ID(), skuIDs, remaining, stock); ok {
				plan = append(plan, assignment)
			}
			continue
		}

		candidates = append(candidates, LocationCandidate{
			Location:       loc,
			AvailableUnits: stock.TotalFor(loc.ID(), skuIDs),
		})
	}

	// Without hopping, a given preference is the only location considered.
	searchOthers := req.PreferredLocationID == nil || cfg.EnableHopping

	if searchOthers && !covered(remaining) {
		ranked, err := e.ranker.Rank(req.Destination, candidates)
		if err != nil {
			return AllocationResult{}, err
		}

		others := 0
		for _, candidate := range ranked {
			if covered(remaining) || others >= otherBudget {
				break
			}
			if assignment, ok := take(candidate.Location.ID(), skuIDs, remaining, stock); ok {
				plan = append(plan, assignment)
				others++
			}
		}
	}

	result, err := buildResult(req, plan, skuIDs, remaining)
	if err != nil {
		return AllocationResult{}, err
	}
	if err = verifyInvariants(req, result, maxLocations); err != nil {
		return AllocationResult{}, err
	}
	return result, nil
}

func (e AllocationEngine) validateRequest(
	req AllocationRequest,
	cfg AllocationConfig,
	stock *warehouse.Availability,
) error {
	if err := req.OrderID.Validate(); err != nil {
		return err
	}
	if err := req.Destination.Validate(); err != nil {
		return err
	}
	if len(req.Items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	seen := make(map[string]struct{}, len(req.Items))
	for _, item := range req.Items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.SkuID()]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("duplicate SKU %q", item.SkuID()))
		}
		seen[item.SkuID()] = struct{}{}
	}
	if req.PreferredLocationID != nil {
		if err := req.PreferredLocationID.Validate(); err != nil {
			return err
		}
	}
	if cfg.MaxHops < 0 {
		return errs.NewValueIsInvalidErrorWithCause("maxHops",
			fmt.Errorf("%d is negative", cfg.MaxHops))
	}
	if stock == nil {
		return errs.NewValueIsRequiredError("stock snapshot")
	}
	return nil
}

// take greedily drains remaining demand from one location's snapshot.
// Returns false when the location contributes nothing.
func take(
	locationID kernel.UUID,
	skuIDs []string,
	remaining map[string]int,
	stock *warehouse.Availability,
) (Assignment, bool) {
	var items []order.Item
	for _, sku := range skuIDs {
		need := remaining[sku]
		if need == 0 {
			continue
		}

		available := stock.Get(locationID, sku)
		quantity := min(need, available)
		if quantity == 0 {
			continue
		}

		// Quantities here are positive by construction, so NewItem cannot fail.
		item, err := order.NewItem(sku, quantity)
		if err != nil {
			continue
		}
		items = append(items, item)
		remaining[sku] = need - quantity
	}

	if len(items) == 0 {
		return Assignment{}, false
	}
	return Assignment{LocationID: locationID, Items: items}, true
}

func covered(remaining map[string]int) bool {
	for _, qty := range remaining {
		if qty > 0 {
			return false
		}
	}
	return true
}

func buildResult(
	req AllocationRequest,
	plan []Assignment,
	skuIDs []string,
	remaining map[string]int,
) (AllocationResult, error) {
	success := covered(remaining)

	var shortfall []order.Item
	if !success {
		for _, sku := range skuIDs {
			if remaining[sku] == 0 {
				continue
			}
			item, err := order.NewItem(sku, remaining[sku])
			if err != nil {
				return AllocationResult{}, err
			}
			shortfall = append(shortfall, item)
		}
	}

	strategy := StrategyPartialUnfulfilled
	if success {
		strategy = StrategySingleLocation
		if len(plan) > 1 {
			strategy = StrategyHoppedSplit
		}
	}

	// With a preference, every non-preferred plan location is a hop, whether
	// or not the preferred one contributed. Without one, the first location
	// is free and the rest are hops.
	totalHops := 0
	if req.PreferredLocationID != nil {
		for _, assignment := range plan {
			if !assignment.LocationID.IsEqual(*req.PreferredLocationID) {
				totalHops++
			}
		}
	} else if len(plan) > 1 {
		totalHops = len(plan) - 1
	}

	return AllocationResult{
		Success:       success,
		Strategy:      strategy,
		TotalHops:     totalHops,
		SplitRequired: len(plan) > 1,
		Plan:          plan,
		Shortfall:     shortfall,
	}, nil
}

// verifyInvariants re-checks the plan against the engine's guarantees.
// A violation is a bug and must fail loudly instead of being clamped.
func verifyInvariants(req AllocationRequest, result AllocationResult, maxLocations int) error {
	if len(result.Plan) > maxLocations {
		return fmt.Errorf("%w: plan spans %d locations, budget is %d",
			ErrAllocationInvariantViolated, len(result.Plan), maxLocations)
	}

	allocated := make(map[string]int)
	for _, assignment := range result.Plan {
		for _, item := range assignment.Items {
			allocated[item.SkuID()] += item.Quantity()
		}
	}

	for _, item := range req.Items {
		got := allocated[item.SkuID()]
		if got > item.Quantity() {
			return fmt.Errorf("%w: SKU %s allocated %d of %d requested",
				ErrAllocationInvariantViolated, item.SkuID(), got, item.Quantity())
		}
		if result.Success && got != item.Quantity() {
			return fmt.Errorf("%w: success reported but SKU %s allocated %d of %d requested",
				ErrAllocationInvariantViolated, item.SkuID(), got, item.Quantity())
		}
	}

	return nil
}
