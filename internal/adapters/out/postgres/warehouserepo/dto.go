package warehouserepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/warehouse"

	"github.com/google/uuid"
)

// LocationDTO is the database representation of a warehouse location.
type LocationDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"type:varchar(255);not null"`
	Pincode string    `gorm:"type:varchar(6);not null"`
	Active  bool      `gorm:"not null;index"`
}

// TableName returns the database table name for the LocationDTO.
func (LocationDTO) TableName() string {
	return "warehouse_locations"
}

// StockLevelDTO is the database representation of one SKU's on-hand quantity
// at one location.
type StockLevelDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_location_sku,unique"`
	SkuID      string    `gorm:"type:varchar(64);not null;index:idx_stock_location_sku,unique"`
	Quantity   int       `gorm:"not null"`
}

// TableName returns the database table name for the StockLevelDTO.
func (StockLevelDTO) TableName() string {
	return "stock_levels"
}

// toDomain converts a LocationDTO to a domain Location.
func toDomain(dto LocationDTO) (warehouse.Location, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return warehouse.Location{}, err
	}

	pincode, err := kernel.NewPincode(dto.Pincode)
	if err != nil {
		return warehouse.Location{}, err
	}

	return warehouse.NewLocation(id, dto.Name, pincode, dto.Active)
}
