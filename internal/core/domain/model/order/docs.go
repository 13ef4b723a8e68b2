// Package order provides domain entities and business logic for the
// order-for-orchestration projection in the fulfillment system. It implements
// the Order aggregate root with lifecycle management and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, properties, and lifecycle
//   - Status: A state machine that enforces valid orchestration state transitions
//   - Item, Payment, Priority, Milestone: value objects describing the order
//
// Key business rules:
//   - Orders must have a valid unique identifier, a destination pincode,
//     at least one line item, and a positive weight
//   - Orchestration status follows the workflow
//     PENDING -> SERVICEABILITY_CHECKED -> SLA_SET -> ALLOCATED -> PARTNER_SELECTED -> HANDED_OFF,
//     with BLOCKED reachable on non-serviceable routes and failed allocations
//   - COD orders carry a positive cash-to-collect amount
//   - Execution milestones are recorded only after handoff
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
