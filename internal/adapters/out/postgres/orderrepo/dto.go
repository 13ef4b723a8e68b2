// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/sla"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items and execution milestones live in child tables keyed by the order,
// the SLA promise is flattened into nullable columns on the order row itself.
type OrderDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Destination         string     `gorm:"type:varchar(6);not null"`
	PreferredLocationID *uuid.UUID `gorm:"type:uuid"`
	Priority            string     `gorm:"type:varchar(16);not null"`
	PaymentMode         string     `gorm:"type:varchar(16);not null"`
	CodAmount           float64
	WeightKg            float64
	PlacedAt            time.Time `gorm:"not null"`
	Status              string    `gorm:"type:varchar(32);not null;index"`
	PromisedAt          *time.Time
	TatDays             *int
	BlockReason         string         `gorm:"type:varchar(64)"`
	Items               []ItemDTO      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Milestones          []MilestoneDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one persisted line item of an order.
type ItemDTO struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	SkuID    string    `gorm:"type:varchar(64);not null"`
	Quantity int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for order line items.
func (ItemDTO) TableName() string {
	return "order_items"
}

// MilestoneDTO represents one persisted execution milestone of an order.
type MilestoneDTO struct {
	ID      uint      `gorm:"primaryKey;autoIncrement"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind    string    `gorm:"type:varchar(16);not null"`
	At      time.Time `gorm:"not null"`
}

// TableName specifies the database table name for order milestones.
func (MilestoneDTO) TableName() string {
	return "order_milestones"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	var preferredLocationID *uuid.UUID
	if id := aggregate.PreferredLocationID(); id != nil {
		raw := id.Bytes()
		preferredLocationID = &raw
	}

	var promisedAt *time.Time
	var tatDays *int
	if promise := aggregate.Promise(); promise != nil {
		at := promise.PromisedAt()
		days := promise.TatDays()
		promisedAt = &at
		tatDays = &days
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:  orderID,
			SkuID:    item.SkuID(),
			Quantity: item.Quantity(),
		})
	}

	milestones := make([]MilestoneDTO, 0, len(aggregate.Milestones()))
	for _, milestone := range aggregate.Milestones() {
		milestones = append(milestones, MilestoneDTO{
			OrderID: orderID,
			Kind:    milestone.Kind().String(),
			At:      milestone.At(),
		})
	}

	return OrderDTO{
		ID:                  orderID,
		Destination:         aggregate.Destination().String(),
		PreferredLocationID: preferredLocationID,
		Priority:            aggregate.Priority().String(),
		PaymentMode:         aggregate.Payment().Mode().String(),
		CodAmount:           aggregate.Payment().CodAmount(),
		WeightKg:            aggregate.WeightKg(),
		PlacedAt:            aggregate.PlacedAt(),
		Status:              aggregate.Status().String(),
		PromisedAt:          promisedAt,
		TatDays:             tatDays,
		BlockReason:         aggregate.BlockReason(),
		Items:               items,
		Milestones:          milestones,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including its orchestration state using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	destination, err := kernel.NewPincode(dto.Destination)
	if err != nil {
		return nil, err
	}

	var preferredLocationID *kernel.UUID
	if dto.PreferredLocationID != nil {
		locationID, locErr := kernel.UUIDFromBytes((*dto.PreferredLocationID)[:])
		if locErr != nil {
			return nil, locErr
		}
		preferredLocationID = &locationID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		item, itemErr := order.NewItem(itemDto.SkuID, itemDto.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	priority, err := order.PriorityFromString(dto.Priority)
	if err != nil {
		return nil, err
	}

	mode, err := order.PaymentModeFromString(dto.PaymentMode)
	if err != nil {
		return nil, err
	}
	payment := order.NewPrepaidPayment()
	if mode == order.Cod {
		if payment, err = order.NewCodPayment(dto.CodAmount); err != nil {
			return nil, err
		}
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var promise *sla.Decision
	if dto.PromisedAt != nil && dto.TatDays != nil {
		decision, slaErr := sla.NewDecision(*dto.PromisedAt, *dto.TatDays)
		if slaErr != nil {
			return nil, slaErr
		}
		promise = &decision
	}

	milestones := make([]order.Milestone, 0, len(dto.Milestones))
	for _, milestoneDto := range dto.Milestones {
		kind, kindErr := order.MilestoneKindFromString(milestoneDto.Kind)
		if kindErr != nil {
			return nil, kindErr
		}
		milestone, milestoneErr := order.NewMilestone(kind, milestoneDto.At)
		if milestoneErr != nil {
			return nil, milestoneErr
		}
		milestones = append(milestones, milestone)
	}

	return order.RestoreOrder(
		id, items, destination, preferredLocationID, priority, payment,
		dto.WeightKg, dto.PlacedAt, status, promise, milestones, dto.BlockReason)
}
