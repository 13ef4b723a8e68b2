package services

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/orchestration"
	"fulfillment/internal/core/domain/model/warehouse"
	"fulfillment/internal/pkg/errs"
)

// Block reasons recorded on an order when orchestration cannot proceed.
const (
	BlockReasonRouteNotServiceable     = "ROUTE_NOT_SERVICEABLE"
	BlockReasonAllocationUnfulfillable = "ALLOCATION_UNFULFILLABLE"
	BlockReasonInfrastructureError     = "INFRASTRUCTURE_ERROR"
)

// PartialFulfillmentPolicy decides whether a short allocation may ship.
// Accept returns true to let the partial plan continue to partner selection.
type PartialFulfillmentPolicy interface {
	Accept(result AllocationResult) bool
}

// RejectPartialPolicy refuses any allocation that does not cover the full
// demand. This is the default: customers get the whole order or a blocked
// one awaiting operator review, never a silent short shipment.
type RejectPartialPolicy struct{}

func (RejectPartialPolicy) Accept(result AllocationResult) bool {
	return result.Success
}

// Environment is the pre-fetched world state one orchestration run decides
// against. The coordinator performs no I/O: callers load everything up front
// so a run is a deterministic function of its environment and every decision
// in one run sees the same snapshot.
type Environment struct {
	// Routes holds the carrier route options keyed by origin pincode.
	Routes map[string][]carrier.RouteCoverage
	// Locations are the warehouses eligible to fulfill, active or not.
	Locations []warehouse.Location
	// Stock is the availability snapshot across all locations.
	Stock *warehouse.Availability
	// StartedAt anchors the run in time for SLA computation.
	StartedAt time.Time
}

// RoutesFrom returns the route options out of the given origin.
func (e Environment) RoutesFrom(origin kernel.Pincode) []carrier.RouteCoverage {
	return e.Routes[origin.String()]
}

// locationPincode resolves a plan location back to its origin pincode.
func (e Environment) locationPincode(locationID kernel.UUID) (kernel.Pincode, error) {
	for _, loc := range e.Locations {
		if loc.ID().IsEqual(locationID) {
			return loc.Pincode(), nil
		}
	}
	return kernel.Pincode{}, errs.NewObjectNotFoundError("locationID", locationID)
}

// ShipmentPartner is the carrier verdict for one shipment of the plan.
type ShipmentPartner struct {
	LocationID     kernel.UUID
	OriginPincode  kernel.Pincode
	Recommendation PartnerRecommendation
}

// OrchestrationOutcome summarizes one run for callers that persist or report it.
type OrchestrationOutcome struct {
	Run        *orchestration.Run
	Allocation AllocationResult
	Partners   []ShipmentPartner
}

// Coordinator drives one order through the orchestration pipeline:
// serviceability, SLA promise, allocation, partner selection, hand-off.
//
// Each step appends an entry to the run's decision trail whether it passed or
// failed, so a blocked order always explains itself. Steps never run out of
// order and a failed step ends the run; the order is left blocked or reset,
// never half-advanced.
type Coordinator struct {
	checker       ServiceabilityChecker
	calculator    SlaCalculator
	engine        AllocationEngine
	selector      PartnerSelector
	allocConfig   AllocationConfig
	partialPolicy PartialFulfillmentPolicy
}

// NewCoordinator wires the pipeline from its step services.
// partialPolicy may be nil, in which case partial plans are rejected.
func NewCoordinator(
	checker ServiceabilityChecker,
	calculator SlaCalculator,
	engine AllocationEngine,
	selector PartnerSelector,
	allocConfig AllocationConfig,
	partialPolicy PartialFulfillmentPolicy,
) (Coordinator, error) {
	if allocConfig.MaxHops < 0 {
		return Coordinator{}, errs.NewValueIsInvalidErrorWithCause("maxHops",
			fmt.Errorf("%d is negative", allocConfig.MaxHops))
	}
	if partialPolicy == nil {
		partialPolicy = RejectPartialPolicy{}
	}
	return Coordinator{
		checker:       checker,
		calculator:    calculator,
		engine:        engine,
		selector:      selector,
		allocConfig:   allocConfig,
		partialPolicy: partialPolicy,
	}, nil
}

// Orchestrate runs the full pipeline for one order against the environment.
//
// Business failures (unserviceable route, unfulfillable allocation, no
// acceptable carrier) block or reset the order, complete the run
// unsuccessfully and return a nil error: the run itself is the answer.
// A short allocation accepted by the policy continues through partner
// selection but never reaches HANDED_OFF; the run completes with
// success=false and NEXT_STEP MANUAL_REVIEW so an operator signs off on
// the shortfall.
// A non-nil error means the pipeline broke mid-flight and the caller must
// treat the order as needing another attempt.
func (c Coordinator) Orchestrate(
	ctx context.Context,
	ord *order.Order,
	env Environment,
) (OrchestrationOutcome, error) {
	if err := ord.Validate(); err != nil {
		return OrchestrationOutcome{}, err
	}
	if env.Stock == nil {
		return OrchestrationOutcome{}, errs.NewValueIsRequiredError("stock snapshot")
	}
	if env.StartedAt.IsZero() {
		return OrchestrationOutcome{}, errs.NewValueIsRequiredError("startedAt")
	}

	if err := ord.BeginOrchestration(); err != nil {
		return OrchestrationOutcome{}, err
	}

	run, err := orchestration.NewRun(ord.ID(), env.StartedAt)
	if err != nil {
		return OrchestrationOutcome{}, err
	}
	outcome := OrchestrationOutcome{Run: run}

	// Step 1: serviceability.
	serviceability, err := c.checkServiceability(ord, env, run)
	if err != nil {
		return outcome, err
	}
	if !serviceability.IsServiceable {
		return outcome, c.abort(ord, run, BlockReasonRouteNotServiceable)
	}
	if err = ord.MarkServiceabilityChecked(); err != nil {
		return outcome, err
	}
	if err = ctx.Err(); err != nil {
		return outcome, err
	}

	// Step 2: SLA promise from the fastest serviceable carrier.
	if err = c.setPromise(ord, serviceability, run); err != nil {
		return outcome, err
	}
	if err = ctx.Err(); err != nil {
		return outcome, err
	}

	// Step 3: allocation.
	allocation, err := c.allocate(ord, env, run)
	if err != nil {
		return outcome, err
	}
	outcome.Allocation = allocation
	if err = ord.MarkAllocated(); err != nil {
		return outcome, err
	}
	if !c.partialPolicy.Accept(allocation) {
		return outcome, c.abort(ord, run, BlockReasonAllocationUnfulfillable)
	}
	if err = ctx.Err(); err != nil {
		return outcome, err
	}

	// Step 4: partner selection, one carrier per shipment of the plan.
	partners, allCovered, err := c.selectPartners(ord, env, allocation, run)
	if err != nil {
		return outcome, err
	}
	outcome.Partners = partners
	if !allCovered {
		// A shipment with no acceptable carrier goes to an operator instead
		// of shipping blind. The order returns to the pool untouched.
		if err = run.Complete(false, orchestration.NextStepManualReview); err != nil {
			return outcome, err
		}
		return outcome, nil
	}
	if err = ord.MarkPartnerSelected(); err != nil {
		return outcome, err
	}

	if !allocation.Success {
		// An accepted short plan is staffed with carriers but held back from
		// hand-off: an operator confirms the short shipment first.
		if err = run.Complete(false, orchestration.NextStepManualReview); err != nil {
			return outcome, err
		}
		return outcome, nil
	}

	if err = ord.HandOff(); err != nil {
		return outcome, err
	}
	if err = run.Complete(true, orchestration.NextStepPicklistGeneration); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (c Coordinator) checkServiceability(
	ord *order.Order,
	env Environment,
	run *orchestration.Run,
) (ServiceabilityResult, error) {
	// The destination route is probed from every candidate origin: the order
	// is serviceable when at least one active warehouse has a carrier
	// covering the lane.
	merged := ServiceabilityResult{}
	seen := make(map[string]struct{})
	for _, loc := range env.Locations {
		if !loc.IsActive() {
			continue
		}
		result, err := c.checker.Check(
			loc.Pincode(), ord.Destination(), ord.Payment().Mode(), env.RoutesFrom(loc.Pincode()))
		if err != nil {
			return ServiceabilityResult{}, err
		}
		if !result.IsServiceable {
			continue
		}
		merged.IsServiceable = true
		for _, transporter := range result.Transporters {
			if _, dup := seen[transporter.Code()]; dup {
				continue
			}
			seen[transporter.Code()] = struct{}{}
			merged.Transporters = append(merged.Transporters, transporter)
		}
	}

	codes := make([]string, len(merged.Transporters))
	for i, transporter := range merged.Transporters {
		codes[i] = transporter.Code()
	}
	err := run.Append(orchestration.StepServiceabilityCheck, merged.IsServiceable, map[string]any{
		"destination":  ord.Destination().String(),
		"transporters": codes,
	})
	if err != nil {
		return ServiceabilityResult{}, err
	}
	return merged, nil
}

func (c Coordinator) setPromise(
	ord *order.Order,
	serviceability ServiceabilityResult,
	run *orchestration.Run,
) error {
	routeTat := 0
	for _, transporter := range serviceability.Transporters {
		if routeTat == 0 || transporter.TatDays() < routeTat {
			routeTat = transporter.TatDays()
		}
	}

	decision, err := c.calculator.Calculate(ord.Priority(), ord.PlacedAt(), routeTat)
	if err != nil {
		return err
	}
	if err = ord.SetPromise(decision); err != nil {
		return err
	}
	return run.Append(orchestration.StepSlaCalculation, true, map[string]any{
		"promisedAt": decision.PromisedAt(),
		"tatDays":    decision.TatDays(),
	})
}

func (c Coordinator) allocate(
	ord *order.Order,
	env Environment,
	run *orchestration.Run,
) (AllocationResult, error) {
	result, err := c.engine.Allocate(AllocationRequest{
		OrderID:             ord.ID(),
		Items:               ord.Items(),
		Destination:         ord.Destination(),
		PreferredLocationID: ord.PreferredLocationID(),
	}, c.allocConfig, env.Locations, env.Stock)
	if err != nil {
		return AllocationResult{}, err
	}

	locations := make([]string, len(result.Plan))
	for i, assignment := range result.Plan {
		locations[i] = assignment.LocationID.String()
	}
	err = run.Append(orchestration.StepAllocation, result.Success, map[string]any{
		"strategy":  string(result.Strategy),
		"totalHops": result.TotalHops,
		"locations": locations,
	})
	if err != nil {
		return AllocationResult{}, err
	}
	return result, nil
}

func (c Coordinator) selectPartners(
	ord *order.Order,
	env Environment,
	allocation AllocationResult,
	run *orchestration.Run,
) ([]ShipmentPartner, bool, error) {
	partners := make([]ShipmentPartner, 0, len(allocation.Plan))
	allCovered := true
	for _, assignment := range allocation.Plan {
		origin, err := env.locationPincode(assignment.LocationID)
		if err != nil {
			return nil, false, err
		}

		serviceability, err := c.checker.Check(
			origin, ord.Destination(), ord.Payment().Mode(), env.RoutesFrom(origin))
		if err != nil {
			return nil, false, err
		}

		recommendation, err := c.selector.Select(SelectionRequest{
			Origin:      origin,
			Destination: ord.Destination(),
			WeightKg:    shipmentWeight(ord, assignment),
			IsCod:       ord.Payment().IsCod(),
			CodAmount:   ord.Payment().CodAmount(),
		}, serviceability.Transporters)
		if err != nil {
			return nil, false, err
		}

		partners = append(partners, ShipmentPartner{
			LocationID:     assignment.LocationID,
			OriginPincode:  origin,
			Recommendation: recommendation,
		})
		if recommendation.Recommended == nil {
			allCovered = false
		}
	}

	trail := make([]map[string]any, len(partners))
	for i, partner := range partners {
		entry := map[string]any{
			"locationId": partner.LocationID.String(),
			"origin":     partner.OriginPincode.String(),
		}
		if partner.Recommendation.Recommended != nil {
			entry["carrier"] = partner.Recommendation.Recommended.CarrierCode
			entry["rate"] = partner.Recommendation.Recommended.Rate
		}
		trail[i] = entry
	}
	err := run.Append(orchestration.StepPartnerSelection, allCovered, map[string]any{
		"shipments": trail,
	})
	if err != nil {
		return nil, false, err
	}
	return partners, allCovered, nil
}

// shipmentWeight prorates the order weight across the plan by unit count.
func shipmentWeight(ord *order.Order, assignment Assignment) float64 {
	totalUnits, shipmentUnits := 0, 0
	for _, item := range ord.Items() {
		totalUnits += item.Quantity()
	}
	for _, item := range assignment.Items {
		shipmentUnits += item.Quantity()
	}
	if totalUnits == 0 {
		return ord.WeightKg()
	}
	return ord.WeightKg() * float64(shipmentUnits) / float64(totalUnits)
}

func (c Coordinator) abort(ord *order.Order, run *orchestration.Run, reason string) error {
	if err := ord.Block(reason); err != nil {
		return err
	}
	return run.Complete(false, orchestration.NextStepNone)
}
