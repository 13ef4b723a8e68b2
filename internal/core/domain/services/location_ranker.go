package services

import (
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/warehouse"
)

// LocationCandidate pairs a warehouse location with its total available stock
// over the SKUs being allocated. The availability feeds the ranking tie-break.
type LocationCandidate struct {
	Location       warehouse.Location
	AvailableUnits int
}

// LocationRanker orders candidate warehouses by attractiveness as hop targets
// for a destination. The allocation loop is metric-agnostic: swapping the
// ranker changes the hop order without touching the allocation math.
type LocationRanker interface {
	// Rank returns the candidates ordered best-first for the destination.
	// Implementations must be deterministic for identical inputs.
	Rank(destination kernel.Pincode, candidates []LocationCandidate) ([]LocationCandidate, error)
}

// ProximityRanker is the default LocationRanker. It orders candidates by
// postal-hierarchy proximity to the destination (longest shared pincode
// prefix first), breaking ties by larger available stock, then by location
// identifier for determinism.
type ProximityRanker struct{}

// NewProximityRanker creates the default proximity-based ranker.
func NewProximityRanker() ProximityRanker {
	return ProximityRanker{}
}

// Rank implements LocationRanker.
func (ProximityRanker) Rank(
	destination kernel.Pincode,
	candidates []LocationCandidate,
) ([]LocationCandidate, error) {
	if err := destination.Validate(); err != nil {
		return nil, err
	}

	type scored struct {
		candidate LocationCandidate
		proximity int
	}

	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Location.Validate(); err != nil {
			return nil, err
		}

		proximity, err := c.Location.Pincode().SharedPrefixLen(destination)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, scored{candidate: c, proximity: proximity})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].proximity != ranked[j].proximity {
			return ranked[i].proximity > ranked[j].proximity
		}
		if ranked[i].candidate.AvailableUnits != ranked[j].candidate.AvailableUnits {
			return ranked[i].candidate.AvailableUnits > ranked[j].candidate.AvailableUnits
		}
		return ranked[i].candidate.Location.ID().String() < ranked[j].candidate.Location.ID().String()
	})

	result := make([]LocationCandidate, len(ranked))
	for i, s := range ranked {
		result[i] = s.candidate
	}
	return result, nil
}
