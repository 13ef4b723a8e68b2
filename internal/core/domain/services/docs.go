// Package services contains the stateless domain services of the orchestration
// core. Each service is a pure, bounded computation over data already fetched
// at the boundary:
//
//   - ServiceabilityChecker: can any carrier move this route for this payment mode
//   - SlaCalculator: what delivery date to promise
//   - SlaTracker: how actual execution compares to the promise
//   - AllocationEngine: which warehouses supply which items, hopping under a budget
//   - PartnerSelector: which carrier should move each resulting shipment
//   - Coordinator: the state machine sequencing the above for one order
//
// No service reads ambient state; carrier configuration and stock snapshots are
// passed as explicit arguments, which keeps every service deterministic for
// identical inputs and safe to run for many orders in parallel.
package services
