package models

import (
	"time"

	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateModel holds the columns shared by every aggregate table
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.ID, m.CreatedAt, m.UpdatedAt, m.Version = a.ID, a.CreatedAt, a.UpdatedAt, a.Version
}

func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Version:    m.Version,
	}
}

// dateOf pins a stored date column to UTC midnight
func dateOf(t time.Time) time.Time {
	return shared.NormalizeDate(t)
}

func optionalDateOf(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOf(*t)
	return &d
}

// AllModels lists every model for AutoMigrate, parents before children
func AllModels() []any {
	return []any{
		&UserModel{},
		&CounterpartyModel{},
		&PropertyObjectModel{},
		&ContractModel{},
		&SpecificationModel{},
		&SpecificationServiceModel{},
		&RealizationModel{},
		&RealizationServiceModel{},
		&PaymentModel{},
		&PaymentAllocationModel{},
	}
}
