package carrierrepo

import (
	"context"
	"strings"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormCarrierConfig implements CarrierConfig using GORM. The carrier and
// coverage tables are configuration data maintained by operations teams;
// this adapter only reads them.
type GormCarrierConfig struct {
	db *gorm.DB
}

// NewGormCarrierConfig creates a new GORM carrier configuration reader.
func NewGormCarrierConfig(db *gorm.DB) *GormCarrierConfig {
	return &GormCarrierConfig{db: db}
}

// RouteCapabilities retrieves the route coverage options for one
// origin/destination lane. Every configured carrier appears in the result
// with its per-end coverage resolved against its pincode prefixes; carriers
// covering neither end are omitted. An empty slice means no carrier touches
// the lane at all.
func (c *GormCarrierConfig) RouteCapabilities(
	ctx context.Context,
	origin, destination kernel.Pincode,
) ([]carrier.RouteCoverage, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if err := destination.Validate(); err != nil {
		return nil, err
	}

	var carrierDTOs []CarrierDTO
	if err := c.db.WithContext(ctx).Order("code").Find(&carrierDTOs).Error; err != nil {
		return nil, err
	}

	var coverageDTOs []CoverageDTO
	if err := c.db.WithContext(ctx).Find(&coverageDTOs).Error; err != nil {
		return nil, err
	}

	prefixesByCarrier := make(map[string][]string, len(carrierDTOs))
	for _, dto := range coverageDTOs {
		prefixesByCarrier[dto.CarrierCode] = append(prefixesByCarrier[dto.CarrierCode], dto.PincodePrefix)
	}

	coverages := make([]carrier.RouteCoverage, 0, len(carrierDTOs))
	for _, dto := range carrierDTOs {
		prefixes := prefixesByCarrier[dto.Code]
		coversOrigin := matchesAny(origin.String(), prefixes)
		coversDestination := matchesAny(destination.String(), prefixes)
		if !coversOrigin && !coversDestination {
			continue
		}

		capability, err := toCapability(dto)
		if err != nil {
			return nil, err
		}
		coverages = append(coverages, carrier.RouteCoverage{
			Capability:        capability,
			CoversOrigin:      coversOrigin,
			CoversDestination: coversDestination,
		})
	}
	return coverages, nil
}

func matchesAny(pincode string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(pincode, prefix) {
			return true
		}
	}
	return false
}
