package services

import (
	"fmt"
	"sort"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// RejectionCodUnsupported marks a carrier dropped because the shipment
// requires cash on delivery and the carrier does not collect it.
const RejectionCodUnsupported = "COD_UNSUPPORTED"

// PartnerWeights balances cost against speed when scoring carriers.
// Weights must be non-negative and sum to a positive value.
type PartnerWeights struct {
	Rate float64
	Tat  float64
}

// DefaultPartnerWeights favors cost over speed.
func DefaultPartnerWeights() PartnerWeights {
	return PartnerWeights{Rate: 0.7, Tat: 0.3}
}

// SelectionRequest describes one shipment needing a carrier.
type SelectionRequest struct {
	Origin      kernel.Pincode
	Destination kernel.Pincode
	WeightKg    float64
	IsCod       bool
	CodAmount   float64
}

// CarrierQuote is one carrier's offer for the shipment.
type CarrierQuote struct {
	CarrierCode string
	Rate        float64
	TatDays     int
}

// RejectedCandidate records a carrier excluded from scoring and why.
type RejectedCandidate struct {
	CarrierCode string
	Reason      string
}

// PartnerRecommendation is the selector's verdict for one shipment.
// Recommended is nil when every candidate was rejected.
type PartnerRecommendation struct {
	Recommended *CarrierQuote
	Rejected    []RejectedCandidate
}

// PartnerSelector picks the best carrier for a shipment by a weighted
// rate-versus-speed score.
//
// Rates and TATs are normalized against the most expensive and slowest
// candidate respectively before weighting, so the two concerns compare on the
// same scale regardless of the absolute numbers involved.
type PartnerSelector struct {
	weights PartnerWeights
}

// NewPartnerSelector creates a selector with the given scoring weights.
func NewPartnerSelector(weights PartnerWeights) (PartnerSelector, error) {
	if weights.Rate < 0 || weights.Tat < 0 {
		return PartnerSelector{}, errs.NewValueIsInvalidErrorWithCause("weights",
			fmt.Errorf("rate %.2f and tat %.2f must be non-negative", weights.Rate, weights.Tat))
	}
	if weights.Rate+weights.Tat <= 0 {
		return PartnerSelector{}, errs.NewValueIsInvalidErrorWithCause("weights",
			fmt.Errorf("rate %.2f and tat %.2f must sum to a positive value", weights.Rate, weights.Tat))
	}
	return PartnerSelector{weights: weights}, nil
}

// Select scores the serviceable carriers for the shipment and recommends the
// cheapest-fastest one by weighted score. Lower scores win; ties break to the
// lower TAT, then to the lexicographically smaller carrier code, so repeated
// runs over the same inputs always agree.
func (s PartnerSelector) Select(
	req SelectionRequest,
	candidates []carrier.Capability,
) (PartnerRecommendation, error) {
	if err := s.validateRequest(req); err != nil {
		return PartnerRecommendation{}, err
	}

	var rejected []RejectedCandidate
	var quotes []CarrierQuote
	for _, candidate := range candidates {
		if err := candidate.Validate(); err != nil {
			return PartnerRecommendation{}, err
		}

		if req.IsCod && !candidate.SupportsCod() {
			rejected = append(rejected, RejectedCandidate{
				CarrierCode: candidate.Code(),
				Reason:      RejectionCodUnsupported,
			})
			continue
		}

		quotes = append(quotes, CarrierQuote{
			CarrierCode: candidate.Code(),
			Rate:        candidate.RateFor(req.WeightKg),
			TatDays:     candidate.TatDays(),
		})
	}

	if len(quotes) == 0 {
		return PartnerRecommendation{Rejected: rejected}, nil
	}

	maxRate, maxTat := 0.0, 0
	for _, quote := range quotes {
		maxRate = max(maxRate, quote.Rate)
		maxTat = max(maxTat, quote.TatDays)
	}

	score := func(q CarrierQuote) float64 {
		total := 0.0
		if maxRate > 0 {
			total += s.weights.Rate * (q.Rate / maxRate)
		}
		if maxTat > 0 {
			total += s.weights.Tat * (float64(q.TatDays) / float64(maxTat))
		}
		return total
	}

	sort.Slice(quotes, func(i, j int) bool {
		si, sj := score(quotes[i]), score(quotes[j])
		if si != sj {
			return si < sj
		}
		if quotes[i].TatDays != quotes[j].TatDays {
			return quotes[i].TatDays < quotes[j].TatDays
		}
		return quotes[i].CarrierCode < quotes[j].CarrierCode
	})

	best := quotes[0]
	return PartnerRecommendation{Recommended: &best, Rejected: rejected}, nil
}

func (s PartnerSelector) validateRequest(req SelectionRequest) error {
	if err := req.Origin.Validate(); err != nil {
		return err
	}
	if err := req.Destination.Validate(); err != nil {
		return err
	}
	if req.WeightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg",
			fmt.Errorf("%.3f must be positive", req.WeightKg))
	}
	if req.IsCod && req.CodAmount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("codAmount",
			fmt.Errorf("%.2f must be positive for cash on delivery", req.CodAmount))
	}
	return nil
}
