package warehouserepo

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/warehouse"

	"gorm.io/gorm"
)

// GormWarehouseStore implements WarehouseStore using GORM. Locations and
// stock levels are operational reference data. The store only reads them;
// inventory systems own the writes.
type GormWarehouseStore struct {
	db *gorm.DB
}

// NewGormWarehouseStore creates a new GORM warehouse store.
func NewGormWarehouseStore(db *gorm.DB) *GormWarehouseStore {
	return &GormWarehouseStore{db: db}
}

// GetActiveLocations retrieves all currently active warehouse locations.
func (s *GormWarehouseStore) GetActiveLocations(ctx context.Context) ([]warehouse.Location, error) {
	var dtos []LocationDTO
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	locations := make([]warehouse.Location, 0, len(dtos))
	for _, dto := range dtos {
		location, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, nil
}

// GetAvailability retrieves the stock snapshot for the given SKUs across all
// locations. SKUs with no stock row anywhere simply stay absent from the
// snapshot, which the snapshot reports as zero.
func (s *GormWarehouseStore) GetAvailability(ctx context.Context, skuIDs []string) (*warehouse.Availability, error) {
	availability := warehouse.NewAvailability()
	if len(skuIDs) == 0 {
		return availability, nil
	}

	var dtos []StockLevelDTO
	err := s.db.WithContext(ctx).
		Where("sku_id IN ?", skuIDs).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		locationID, err := kernel.UUIDFromBytes(dto.LocationID[:])
		if err != nil {
			return nil, err
		}
		availability.Set(locationID, dto.SkuID, dto.Quantity)
	}
	return availability, nil
}
