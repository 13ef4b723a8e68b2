package runrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/orchestration"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRunRepository implements RunRepository using GORM.
type GormRunRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRunRepository creates a new GORM run repository.
func NewGormRunRepository(db *gorm.DB, tracker aggregateTracker) *GormRunRepository {
	return &GormRunRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a run and its decision trail to the database.
// Runs are append-only: they are never updated after being written.
func (r *GormRunRepository) Add(ctx context.Context, run *orchestration.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(run)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(run.ID(), run)
	return nil
}

// Get retrieves a run by ID.
func (r *GormRunRepository) Get(ctx context.Context, id kernel.UUID) (*orchestration.Run, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RunDTO
	err := r.db.WithContext(ctx).
		Preload("Trail", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("run", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetLastForOrder retrieves the most recently started run for an order.
func (r *GormRunRepository) GetLastForOrder(ctx context.Context, orderID kernel.UUID) (*orchestration.Run, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto RunDTO
	err := r.db.WithContext(ctx).
		Preload("Trail", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("order_id = ?", orderID.Bytes()).
		Order("started_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("run", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
