package models

import (
	"time"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RealizationModel is the persistence model for the Realization aggregate root.
// The (specification_service_id, year, month) unique index makes monthly generation idempotent.
type RealizationModel struct {
	AggregateModel
	Date                   time.Time                 `gorm:"type:date;not null;index"`
	Source                 billing.Source            `gorm:"type:varchar(10);not null"`
	Month                  int                       `gorm:"not null;uniqueIndex:idx_realization_service_period,priority:3;index:idx_realization_period,priority:2"`
	Year                   int                       `gorm:"not null;uniqueIndex:idx_realization_service_period,priority:2;index:idx_realization_period,priority:1"`
	PaidAmount             decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentStatus          billing.PaymentStatus     `gorm:"type:varchar(20);not null;default:'NOT_PAID';index"`
	CounterpartyID         uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ContractID             *uuid.UUID                `gorm:"type:uuid;index"`
	SpecificationID        *uuid.UUID                `gorm:"type:uuid"`
	SpecificationServiceID *uuid.UUID                `gorm:"type:uuid;uniqueIndex:idx_realization_service_period,priority:1"`
	ManagerID              uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Services               []RealizationServiceModel `gorm:"foreignKey:RealizationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (RealizationModel) TableName() string {
	return "realizations"
}

// RealizationServiceModel is the persistence model for a realization service line.
type RealizationServiceModel struct {
	ID               uuid.UUID           `gorm:"type:uuid;primary_key"`
	RealizationID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position         int                 `gorm:"not null;default:0"`
	Description      string              `gorm:"type:varchar(500);not null"`
	SaleAmount       decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	ExpenseAmount    decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	ServiceType      catalog.ServiceType `gorm:"type:varchar(30);not null"`
	PropertyObjectID *uuid.UUID          `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (RealizationServiceModel) TableName() string {
	return "realization_services"
}

// ToDomain converts the persistence model to a domain Realization.
func (m *RealizationModel) ToDomain() *billing.Realization {
	r := &billing.Realization{
		BaseAggregateRoot:      m.ToAggregateRoot(),
		Date:                   dateOf(m.Date),
		Source:                 m.Source,
		Month:                  m.Month,
		Year:                   m.Year,
		PaidAmount:             m.PaidAmount,
		PaymentStatus:          m.PaymentStatus,
		CounterpartyID:         m.CounterpartyID,
		ContractID:             m.ContractID,
		SpecificationID:        m.SpecificationID,
		SpecificationServiceID: m.SpecificationServiceID,
		ManagerID:              m.ManagerID,
		Services:               make([]billing.RealizationService, 0, len(m.Services)),
	}
	for _, s := range m.Services {
		r.Services = append(r.Services, billing.RealizationService{
			ID:               s.ID,
			RealizationID:    s.RealizationID,
			Description:      s.Description,
			SaleAmount:       s.SaleAmount,
			ExpenseAmount:    s.ExpenseAmount,
			ServiceType:      s.ServiceType,
			PropertyObjectID: s.PropertyObjectID,
		})
	}
	return r
}

// FromDomain populates the persistence model from a domain Realization.
func (m *RealizationModel) FromDomain(r *billing.Realization) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Date = r.Date
	m.Source = r.Source
	m.Month = r.Month
	m.Year = r.Year
	m.PaidAmount = r.PaidAmount
	m.PaymentStatus = r.PaymentStatus
	m.CounterpartyID = r.CounterpartyID
	m.ContractID = r.ContractID
	m.SpecificationID = r.SpecificationID
	m.SpecificationServiceID = r.SpecificationServiceID
	m.ManagerID = r.ManagerID
	m.Services = make([]RealizationServiceModel, 0, len(r.Services))
	for i, s := range r.Services {
		m.Services = append(m.Services, RealizationServiceModel{
			ID:               s.ID,
			RealizationID:    r.ID,
			Position:         i,
			Description:      s.Description,
			SaleAmount:       s.SaleAmount,
			ExpenseAmount:    s.ExpenseAmount,
			ServiceType:      s.ServiceType,
			PropertyObjectID: s.PropertyObjectID,
		})
	}
}

// RealizationModelFromDomain creates a new persistence model from a domain Realization.
func RealizationModelFromDomain(r *billing.Realization) *RealizationModel {
	m := &RealizationModel{}
	m.FromDomain(r)
	return m
}
