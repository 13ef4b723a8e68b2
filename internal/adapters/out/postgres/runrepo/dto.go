// Package runrepo provides data transfer objects and mapping functions for
// orchestration run persistence. A run's decision trail is stored as ordered
// child rows with the step payload serialized to JSONB, so operators can query
// trails directly in SQL.
package runrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/orchestration"

	"github.com/google/uuid"
)

// RunDTO represents the database structure for persisting orchestration runs.
type RunDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	StartedAt time.Time `gorm:"not null;index"`
	Success   bool
	NextStep  string          `gorm:"type:varchar(32)"`
	Completed bool            `gorm:"not null"`
	Trail     []TrailEntryDTO `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for orchestration runs.
func (RunDTO) TableName() string {
	return "orchestration_runs"
}

// TrailEntryDTO represents one persisted decision trail entry. Seq preserves
// the order the pipeline appended entries in.
type TrailEntryDTO struct {
	ID      uint      `gorm:"primaryKey;autoIncrement"`
	RunID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Seq     int       `gorm:"not null"`
	Step    string    `gorm:"type:varchar(32);not null"`
	Success bool
	Data    []byte `gorm:"type:jsonb"`
}

// TableName specifies the database table name for trail entries.
func (TrailEntryDTO) TableName() string {
	return "orchestration_trail_entries"
}

// fromDomain converts a run domain aggregate to its database representation.
func fromDomain(run *orchestration.Run) (RunDTO, error) {
	runID := run.ID().Bytes()

	trail := make([]TrailEntryDTO, 0, len(run.Trail()))
	for seq, entry := range run.Trail() {
		data, err := json.Marshal(entry.Data)
		if err != nil {
			return RunDTO{}, err
		}
		trail = append(trail, TrailEntryDTO{
			RunID:   runID,
			Seq:     seq,
			Step:    string(entry.Step),
			Success: entry.Success,
			Data:    data,
		})
	}

	return RunDTO{
		ID:        runID,
		OrderID:   run.OrderID().Bytes(),
		StartedAt: run.StartedAt(),
		Success:   run.Success(),
		NextStep:  string(run.NextStep()),
		Completed: run.IsCompleted(),
		Trail:     trail,
	}, nil
}

// toDomain converts a database DTO to a run domain aggregate.
func toDomain(dto RunDTO) (*orchestration.Run, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	trail := make([]orchestration.TrailEntry, 0, len(dto.Trail))
	for _, entryDto := range dto.Trail {
		var data any
		if len(entryDto.Data) > 0 {
			if err = json.Unmarshal(entryDto.Data, &data); err != nil {
				return nil, err
			}
		}
		trail = append(trail, orchestration.TrailEntry{
			Step:    orchestration.Step(entryDto.Step),
			Success: entryDto.Success,
			Data:    data,
		})
	}

	return orchestration.RestoreRun(
		id, orderID, dto.StartedAt, trail,
		dto.Success, orchestration.NextStep(dto.NextStep))
}
