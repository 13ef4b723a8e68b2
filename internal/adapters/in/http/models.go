package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
)

// Error is the uniform error body returned by every handler.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderItem is one line item of an incoming order.
type OrderItem struct {
	SkuID    string `json:"skuId"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest is the body of POST /api/v1/orders. OrderID and
// PlacedAt are optional; the server generates them when absent.
type CreateOrderRequest struct {
	OrderID             string      `json:"orderId,omitempty"`
	Items               []OrderItem `json:"items"`
	Destination         string      `json:"destination"`
	PreferredLocationID string      `json:"preferredLocationId,omitempty"`
	Priority            string      `json:"priority"`
	PaymentMode         string      `json:"paymentMode"`
	CodAmount           float64     `json:"codAmount,omitempty"`
	WeightKg            float64     `json:"weightKg"`
	PlacedAt            time.Time   `json:"placedAt,omitempty"`
}

// CreateOrderResponse acknowledges order intake.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

// RecordMilestoneRequest is the body of POST /api/v1/orders/{orderId}/milestones.
type RecordMilestoneRequest struct {
	Kind string    `json:"kind"`
	At   time.Time `json:"at"`
}

// TrailStep is one orchestration trail entry in the status response.
type TrailStep struct {
	Step    string `json:"step"`
	Success bool   `json:"success"`
}

// RunSummary describes the latest orchestration run of an order.
type RunSummary struct {
	RunID     string      `json:"runId"`
	StartedAt time.Time   `json:"startedAt"`
	Success   bool        `json:"success"`
	NextStep  string      `json:"nextStep"`
	Trail     []TrailStep `json:"trail"`
}

// Milestone is one downstream execution event in the status response.
type Milestone struct {
	Kind string    `json:"kind"`
	At   time.Time `json:"at"`
}

// OrderStatusResponse is the consolidated order view returned by
// GET /api/v1/orders/{orderId}/status.
type OrderStatusResponse struct {
	OrderID     string      `json:"orderId"`
	Status      string      `json:"status"`
	BlockReason string      `json:"blockReason,omitempty"`
	PromisedAt  *time.Time  `json:"promisedAt,omitempty"`
	TatDays     *int        `json:"tatDays,omitempty"`
	LastRun     *RunSummary `json:"lastRun,omitempty"`
	Milestones  []Milestone `json:"milestones"`
}

// SlaComplianceResponse is the derived promise-compliance snapshot returned
// by GET /api/v1/orders/{orderId}/sla.
type SlaComplianceResponse struct {
	OrderID      string    `json:"orderId"`
	PromisedAt   time.Time `json:"promisedAt"`
	TatDays      int       `json:"tatDays"`
	Status       string    `json:"status"`
	DelayMinutes int       `json:"delayMinutes"`
}

// toOrderStatusResponse maps the query read model to the wire response.
func toOrderStatusResponse(view queries.GetOrderStatusQueryResponse) OrderStatusResponse {
	response := OrderStatusResponse{
		OrderID:     view.OrderID.String(),
		Status:      view.Status,
		BlockReason: view.BlockReason,
		PromisedAt:  view.PromisedAt,
		TatDays:     view.TatDays,
		Milestones:  make([]Milestone, 0, len(view.Milestones)),
	}

	for _, milestone := range view.Milestones {
		response.Milestones = append(response.Milestones, Milestone{
			Kind: milestone.Kind,
			At:   milestone.At,
		})
	}

	if view.LastRun != nil {
		run := RunSummary{
			RunID:     view.LastRun.RunID.String(),
			StartedAt: view.LastRun.StartedAt,
			Success:   view.LastRun.Success,
			NextStep:  view.LastRun.NextStep,
			Trail:     make([]TrailStep, 0, len(view.LastRun.Trail)),
		}
		for _, entry := range view.LastRun.Trail {
			run.Trail = append(run.Trail, TrailStep{
				Step:    entry.Step,
				Success: entry.Success,
			})
		}
		response.LastRun = &run
	}

	return response
}
