package models

import (
	"time"

	"github.com/adspace/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AggregateModel
	PaymentDate       time.Time                `gorm:"type:date;not null;index"`
	InitialAmount     decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	UnallocatedAmount decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	PaymentType       finance.PaymentType      `gorm:"type:varchar(20);not null"`
	CounterpartyID    uuid.UUID                `gorm:"type:uuid;not null;index"`
	ContractID        *uuid.UUID               `gorm:"type:uuid;index"`
	Comment           string                   `gorm:"type:text"`
	Allocations       []PaymentAllocationModel `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// PaymentAllocationModel links part of a payment to a realization.
// Position keeps the allocation order so that reversal walks the same list.
type PaymentAllocationModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	PaymentID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_allocation_payment_realization,priority:1"`
	RealizationID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_allocation_payment_realization,priority:2"`
	Position      int             `gorm:"not null;default:0"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AllocatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the allocation model to its domain form.
func (m *PaymentAllocationModel) ToDomain() finance.PaymentAllocation {
	return finance.PaymentAllocation{
		ID:            m.ID,
		PaymentID:     m.PaymentID,
		RealizationID: m.RealizationID,
		Amount:        m.Amount,
		AllocatedAt:   m.AllocatedAt,
	}
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *finance.Payment {
	p := &finance.Payment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		PaymentDate:       dateOf(m.PaymentDate),
		InitialAmount:     m.InitialAmount,
		UnallocatedAmount: m.UnallocatedAmount,
		PaymentType:       m.PaymentType,
		CounterpartyID:    m.CounterpartyID,
		ContractID:        m.ContractID,
		Comment:           m.Comment,
		Allocations:       make([]finance.PaymentAllocation, 0, len(m.Allocations)),
	}
	for i := range m.Allocations {
		p.Allocations = append(p.Allocations, m.Allocations[i].ToDomain())
	}
	return p
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *finance.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.PaymentDate = p.PaymentDate
	m.InitialAmount = p.InitialAmount
	m.UnallocatedAmount = p.UnallocatedAmount
	m.PaymentType = p.PaymentType
	m.CounterpartyID = p.CounterpartyID
	m.ContractID = p.ContractID
	m.Comment = p.Comment
	m.Allocations = make([]PaymentAllocationModel, 0, len(p.Allocations))
	for i, a := range p.Allocations {
		m.Allocations = append(m.Allocations, PaymentAllocationModel{
			ID:            a.ID,
			PaymentID:     p.ID,
			RealizationID: a.RealizationID,
			Position:      i,
			Amount:        a.Amount,
			AllocatedAt:   a.AllocatedAt,
		})
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
