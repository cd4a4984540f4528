package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType represents how the money was received
type PaymentType string

const (
	PaymentTypeCash    PaymentType = "CASH"
	PaymentTypeNonCash PaymentType = "NON_CASH"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeNonCash:
		return true
	}
	return false
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// PaymentAllocation links part of a payment to one realization
type PaymentAllocation struct {
	ID            uuid.UUID       `json:"id"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	RealizationID uuid.UUID       `json:"realization_id"`
	Amount        decimal.Decimal `json:"amount"`
	AllocatedAt   time.Time       `json:"allocated_at"`
}

// Payment is money received from a counterparty.
// InitialAmount always equals UnallocatedAmount plus the sum of allocations.
type Payment struct {
	shared.BaseAggregateRoot
	PaymentDate       time.Time           `json:"payment_date"`
	InitialAmount     decimal.Decimal     `json:"initial_amount"`
	UnallocatedAmount decimal.Decimal     `json:"unallocated_amount"`
	PaymentType       PaymentType         `json:"payment_type"`
	CounterpartyID    uuid.UUID           `json:"counterparty_id"`
	ContractID        *uuid.UUID          `json:"contract_id,omitempty"`
	Comment           string              `json:"comment"`
	Allocations       []PaymentAllocation `json:"allocations"`
}

// PaymentDetails carries the caller supplied fields of a payment
type PaymentDetails struct {
	PaymentDate    time.Time
	Amount         decimal.Decimal
	PaymentType    PaymentType
	CounterpartyID uuid.UUID
	ContractID     *uuid.UUID
	Comment        string
}

func (d PaymentDetails) validate() error {
	if !d.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if d.Amount.Round(2).IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be at least one kopeck")
	}
	if !d.PaymentType.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_TYPE", "Payment type must be CASH or NON_CASH")
	}
	if d.PaymentDate.IsZero() {
		return shared.NewDomainError("INVALID_PAYMENT_DATE", "Payment date is required")
	}
	if d.CounterpartyID == uuid.Nil {
		return shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	return nil
}

// NewPayment creates a payment with the whole amount unallocated
func NewPayment(d PaymentDetails) (*Payment, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Allocations:       make([]PaymentAllocation, 0),
	}
	p.setDetails(d)
	return p, nil
}

func (p *Payment) setDetails(d PaymentDetails) {
	amount := d.Amount.Round(2)
	p.PaymentDate = shared.NormalizeDate(d.PaymentDate)
	p.InitialAmount = amount
	p.UnallocatedAmount = amount
	p.PaymentType = d.PaymentType
	p.CounterpartyID = d.CounterpartyID
	p.ContractID = d.ContractID
	p.Comment = strings.TrimSpace(d.Comment)
}

// ReleaseAllocations drops every allocation and returns them so the caller can
// reverse them on the realizations. The whole amount becomes unallocated again.
func (p *Payment) ReleaseAllocations() []PaymentAllocation {
	released := p.Allocations
	p.Allocations = make([]PaymentAllocation, 0)
	p.UnallocatedAmount = p.InitialAmount
	p.Touch()
	return released
}

// Reset replaces the payment details. Allocations must be released first.
func (p *Payment) Reset(d PaymentDetails) error {
	if len(p.Allocations) > 0 {
		return shared.NewDomainError("INVALID_STATE", "Release allocations before changing the payment")
	}
	if err := d.validate(); err != nil {
		return err
	}
	p.setDetails(d)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// RecordAllocation books part of the unallocated amount against a realization
func (p *Payment) RecordAllocation(realizationID uuid.UUID, amount decimal.Decimal) (*PaymentAllocation, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if amount.GreaterThan(p.UnallocatedAmount) {
		return nil, shared.NewDomainError("INSUFFICIENT_UNALLOCATED",
			fmt.Sprintf("Allocation %s exceeds unallocated amount %s", amount.StringFixed(2), p.UnallocatedAmount.StringFixed(2)))
	}
	alloc := PaymentAllocation{
		ID:            uuid.New(),
		PaymentID:     p.ID,
		RealizationID: realizationID,
		Amount:        amount,
		AllocatedAt:   time.Now(),
	}
	p.Allocations = append(p.Allocations, alloc)
	p.UnallocatedAmount = p.UnallocatedAmount.Sub(amount)
	p.Touch()
	return &p.Allocations[len(p.Allocations)-1], nil
}

// AllocatedAmount is the sum of all allocation amounts
func (p *Payment) AllocatedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// HasAdvance reports whether part of the payment stays unallocated
func (p *Payment) HasAdvance() bool {
	return p.UnallocatedAmount.IsPositive()
}

// CheckConservation verifies that initial = unallocated + allocated and that no part is negative
func (p *Payment) CheckConservation() error {
	if p.UnallocatedAmount.IsNegative() {
		return shared.NewConsistencyFault("ALLOCATION_CONSERVATION",
			fmt.Sprintf("Payment %s has negative unallocated amount %s", p.ID, p.UnallocatedAmount.StringFixed(2)))
	}
	for _, a := range p.Allocations {
		if !a.Amount.IsPositive() {
			return shared.NewConsistencyFault("ALLOCATION_CONSERVATION",
				fmt.Sprintf("Payment %s has a non-positive allocation", p.ID))
		}
	}
	if !p.UnallocatedAmount.Add(p.AllocatedAmount()).Equal(p.InitialAmount) {
		return shared.NewConsistencyFault("ALLOCATION_CONSERVATION",
			fmt.Sprintf("Payment %s: allocated %s plus unallocated %s differs from %s",
				p.ID, p.AllocatedAmount().StringFixed(2), p.UnallocatedAmount.StringFixed(2), p.InitialAmount.StringFixed(2)))
	}
	return nil
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	shared.Filter
	CounterpartyID *uuid.UUID
	ContractID     *uuid.UUID
	PaymentType    *PaymentType
	DateFrom       *time.Time
	DateTo         *time.Time
	HasAdvance     *bool
}

// PaymentRepository persists payments with their allocations
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, int64, error)
	// Save inserts or updates the payment and replaces its allocation links
	Save(ctx context.Context, p *Payment) error
	// Delete removes the payment and its allocation links
	Delete(ctx context.Context, id uuid.UUID) error
	// FindAllocationsByRealization lists allocations made to a realization
	FindAllocationsByRealization(ctx context.Context, realizationID uuid.UUID) ([]PaymentAllocation, error)
}
