package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusledger/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel extends BaseModel with the version column backing
// optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// SchoolAggregateModel provides common persistence fields for school-scoped
// aggregate roots.
type SchoolAggregateModel struct {
	AggregateModel
	SchoolID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomain populates the model from a domain SchoolAggregateRoot
func (m *SchoolAggregateModel) FromDomain(a shared.SchoolAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
	m.SchoolID = a.SchoolID
	m.CreatedBy = a.CreatedBy
}

// ToDomain converts the model to a domain SchoolAggregateRoot
func (m *SchoolAggregateModel) ToDomain() shared.SchoolAggregateRoot {
	return shared.SchoolAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		SchoolID:  m.SchoolID,
		CreatedBy: m.CreatedBy,
	}
}
