package carrierrepo

import (
	"fulfillment/internal/core/domain/model/carrier"
)

// CarrierDTO is the database representation of a carrier's capability
// profile: pricing, transit time and payment mode support.
type CarrierDTO struct {
	Code        string  `gorm:"type:varchar(32);primaryKey"`
	SupportsCod bool    `gorm:"not null"`
	BaseRate    float64 `gorm:"not null"`
	PerKgRate   float64 `gorm:"not null"`
	TatDays     int     `gorm:"not null"`
}

// TableName returns the database table name for the CarrierDTO.
func (CarrierDTO) TableName() string {
	return "carriers"
}

// CoverageDTO is the database representation of one pincode prefix a carrier
// serves. A carrier covers a pincode when any of its prefixes matches the
// start of that pincode; a full 6-digit prefix pins coverage to exactly one
// pincode while shorter prefixes cover whole regions.
type CoverageDTO struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	CarrierCode   string `gorm:"type:varchar(32);not null;index:idx_coverage_carrier_prefix,unique"`
	PincodePrefix string `gorm:"type:varchar(6);not null;index:idx_coverage_carrier_prefix,unique"`
}

// TableName returns the database table name for the CoverageDTO.
func (CoverageDTO) TableName() string {
	return "carrier_coverage"
}

// toCapability converts a CarrierDTO to a domain Capability.
func toCapability(dto CarrierDTO) (carrier.Capability, error) {
	return carrier.NewCapability(dto.Code, dto.SupportsCod, dto.BaseRate, dto.PerKgRate, dto.TatDays)
}
