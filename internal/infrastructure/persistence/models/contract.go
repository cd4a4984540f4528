package models

import (
	"time"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/contract"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractModel is the persistence model for the Contract aggregate root.
type ContractModel struct {
	AggregateModel
	Number         string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Date           time.Time                `gorm:"type:date;not null"`
	AppEndDate     *time.Time               `gorm:"type:date"`
	PavilionNumber string                   `gorm:"type:varchar(50)"`
	Status         contract.Status          `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	CounterpartyID uuid.UUID                `gorm:"type:uuid;not null;index"`
	ManagerID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	Category       catalog.BusinessCategory `gorm:"type:varchar(30);not null"`
	Specifications []SpecificationModel     `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// SpecificationModel is the persistence model for a contract specification.
type SpecificationModel struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key"`
	ContractID  uuid.UUID                   `gorm:"type:uuid;not null;index;uniqueIndex:idx_specification_contract_number,priority:1"`
	Number      string                      `gorm:"type:varchar(50);not null;uniqueIndex:idx_specification_contract_number,priority:2"`
	StartDate   time.Time                   `gorm:"type:date;not null"`
	EndDate     time.Time                   `gorm:"type:date;not null"`
	Description string                      `gorm:"type:text"`
	CreatedAt   time.Time                   `gorm:"not null"`
	Services    []SpecificationServiceModel `gorm:"foreignKey:SpecificationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SpecificationModel) TableName() string {
	return "specifications"
}

// SpecificationServiceModel is the persistence model for a specification service line.
type SpecificationServiceModel struct {
	ID               uuid.UUID            `gorm:"type:uuid;primary_key"`
	SpecificationID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Description      string               `gorm:"type:varchar(500);not null"`
	BillingType      contract.BillingType `gorm:"type:varchar(20);not null"`
	Amount           decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	ServiceType      catalog.ServiceType  `gorm:"type:varchar(30);not null"`
	PropertyObjectID *uuid.UUID           `gorm:"type:uuid;index"`
	StartDate        *time.Time           `gorm:"type:date"`
	EndDate          *time.Time           `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (SpecificationServiceModel) TableName() string {
	return "specification_services"
}

// ToDomain converts the persistence model to a domain Contract with its specifications.
func (m *ContractModel) ToDomain() *contract.Contract {
	c := &contract.Contract{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Number:            m.Number,
		Date:              dateOf(m.Date),
		AppEndDate:        optionalDateOf(m.AppEndDate),
		PavilionNumber:    m.PavilionNumber,
		Status:            m.Status,
		CounterpartyID:    m.CounterpartyID,
		ManagerID:         m.ManagerID,
		Category:          m.Category,
		Specifications:    make([]contract.Specification, 0, len(m.Specifications)),
	}
	for i := range m.Specifications {
		c.Specifications = append(c.Specifications, m.Specifications[i].ToDomain())
	}
	return c
}

// ToDomain converts the persistence model to a domain Specification.
func (m *SpecificationModel) ToDomain() contract.Specification {
	s := contract.Specification{
		ID:          m.ID,
		ContractID:  m.ContractID,
		Number:      m.Number,
		StartDate:   dateOf(m.StartDate),
		EndDate:     dateOf(m.EndDate),
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		Services:    make([]contract.SpecificationService, 0, len(m.Services)),
	}
	for _, svc := range m.Services {
		s.Services = append(s.Services, contract.SpecificationService{
			ID:               svc.ID,
			SpecificationID:  svc.SpecificationID,
			Description:      svc.Description,
			BillingType:      svc.BillingType,
			Amount:           svc.Amount,
			ServiceType:      svc.ServiceType,
			PropertyObjectID: svc.PropertyObjectID,
			StartDate:        optionalDateOf(svc.StartDate),
			EndDate:          optionalDateOf(svc.EndDate),
		})
	}
	return s
}

// FromDomain populates the persistence model from a domain Contract, including
// specifications and service lines.
func (m *ContractModel) FromDomain(c *contract.Contract) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Number = c.Number
	m.Date = c.Date
	m.AppEndDate = c.AppEndDate
	m.PavilionNumber = c.PavilionNumber
	m.Status = c.Status
	m.CounterpartyID = c.CounterpartyID
	m.ManagerID = c.ManagerID
	m.Category = c.Category
	m.Specifications = make([]SpecificationModel, 0, len(c.Specifications))
	for _, s := range c.Specifications {
		sm := SpecificationModel{
			ID:          s.ID,
			ContractID:  c.ID,
			Number:      s.Number,
			StartDate:   s.StartDate,
			EndDate:     s.EndDate,
			Description: s.Description,
			CreatedAt:   s.CreatedAt,
			Services:    make([]SpecificationServiceModel, 0, len(s.Services)),
		}
		for _, svc := range s.Services {
			sm.Services = append(sm.Services, SpecificationServiceModel{
				ID:               svc.ID,
				SpecificationID:  s.ID,
				Description:      svc.Description,
				BillingType:      svc.BillingType,
				Amount:           svc.Amount,
				ServiceType:      svc.ServiceType,
				PropertyObjectID: svc.PropertyObjectID,
				StartDate:        svc.StartDate,
				EndDate:          svc.EndDate,
			})
		}
		m.Specifications = append(m.Specifications, sm)
	}
}

// ContractModelFromDomain creates a new persistence model from a domain Contract.
func ContractModelFromDomain(c *contract.Contract) *ContractModel {
	m := &ContractModel{}
	m.FromDomain(c)
	return m
}
