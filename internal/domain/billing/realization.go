package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RealizationService is one sold service line of a realization
type RealizationService struct {
	ID               uuid.UUID           `json:"id"`
	RealizationID    uuid.UUID           `json:"realization_id"`
	Description      string              `json:"description"`
	SaleAmount       decimal.Decimal     `json:"sale_amount"`
	ExpenseAmount    decimal.Decimal     `json:"expense_amount"`
	ServiceType      catalog.ServiceType `json:"service_type"`
	PropertyObjectID *uuid.UUID          `json:"property_object_id,omitempty"`
}

// ServiceInput holds the editable fields of a realization service line
type ServiceInput struct {
	Description      string
	SaleAmount       decimal.Decimal
	ExpenseAmount    decimal.Decimal
	ServiceType      catalog.ServiceType
	PropertyObjectID *uuid.UUID
}

func (in ServiceInput) validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Service description cannot be empty")
	}
	if in.SaleAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Sale amount cannot be negative")
	}
	if in.ExpenseAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount cannot be negative")
	}
	if !in.ServiceType.IsValid() {
		return shared.NewDomainError("INVALID_SERVICE_TYPE", "Service type is not valid")
	}
	return nil
}

func newRealizationService(realizationID uuid.UUID, in ServiceInput) RealizationService {
	return RealizationService{
		ID:               uuid.New(),
		RealizationID:    realizationID,
		Description:      strings.TrimSpace(in.Description),
		SaleAmount:       in.SaleAmount.Round(2),
		ExpenseAmount:    in.ExpenseAmount.Round(2),
		ServiceType:      in.ServiceType,
		PropertyObjectID: in.PropertyObjectID,
	}
}

// Realization is a billing event for one period or one occurrence.
// PaymentStatus always equals DeriveStatus(TotalSale(), PaidAmount).
type Realization struct {
	shared.BaseAggregateRoot
	Date                   time.Time            `json:"date"`
	Source                 Source               `json:"source"`
	Month                  int                  `json:"month"`
	Year                   int                  `json:"year"`
	PaidAmount             decimal.Decimal      `json:"paid_amount"`
	PaymentStatus          PaymentStatus        `json:"payment_status"`
	CounterpartyID         uuid.UUID            `json:"counterparty_id"`
	ContractID             *uuid.UUID           `json:"contract_id,omitempty"`
	SpecificationID        *uuid.UUID           `json:"specification_id,omitempty"`
	SpecificationServiceID *uuid.UUID           `json:"specification_service_id,omitempty"`
	ManagerID              uuid.UUID            `json:"manager_id"`
	Services               []RealizationService `json:"services"`
}

// AutoParams carries the contract data a generated realization is built from
type AutoParams struct {
	CounterpartyID         uuid.UUID
	ManagerID              uuid.UUID
	ContractID             uuid.UUID
	SpecificationID        uuid.UUID
	SpecificationServiceID uuid.UUID
	Description            string
	Amount                 decimal.Decimal
	ServiceType            catalog.ServiceType
	PropertyObjectID       *uuid.UUID
}

// NewAutoRealization creates the realization of one monthly service line for a period
func NewAutoRealization(period Period, p AutoParams) (*Realization, error) {
	if p.CounterpartyID == uuid.Nil || p.ManagerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REALIZATION", "Counterparty and manager are required")
	}
	if p.SpecificationServiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REALIZATION", "Specification service is required for generated realizations")
	}
	in := ServiceInput{
		Description:      p.Description,
		SaleAmount:       p.Amount,
		ExpenseAmount:    decimal.Zero,
		ServiceType:      p.ServiceType,
		PropertyObjectID: p.PropertyObjectID,
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	contractID, specID, svcID := p.ContractID, p.SpecificationID, p.SpecificationServiceID
	r := &Realization{
		BaseAggregateRoot:      shared.NewBaseAggregateRoot(),
		Date:                   period.Start(),
		Source:                 SourceAuto,
		Month:                  period.Month,
		Year:                   period.Year,
		PaidAmount:             decimal.Zero,
		CounterpartyID:         p.CounterpartyID,
		ContractID:             &contractID,
		SpecificationID:        &specID,
		SpecificationServiceID: &svcID,
		ManagerID:              p.ManagerID,
	}
	r.Services = []RealizationService{newRealizationService(r.ID, in)}
	r.PaymentStatus = DeriveStatus(r.TotalSale(), r.PaidAmount)
	return r, nil
}

// ManualParams carries a manually entered realization
type ManualParams struct {
	Date            time.Time
	Source          Source
	CounterpartyID  uuid.UUID
	ManagerID       uuid.UUID
	ContractID      *uuid.UUID
	SpecificationID *uuid.UUID
	Services        []ServiceInput
}

// NewManualRealization creates a MANUAL or ONCE realization with one or more service lines
func NewManualRealization(p ManualParams) (*Realization, error) {
	if p.Source != SourceManual && p.Source != SourceOnce {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Manual realizations must have source MANUAL or ONCE")
	}
	if p.Date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Realization date is required")
	}
	if p.CounterpartyID == uuid.Nil || p.ManagerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REALIZATION", "Counterparty and manager are required")
	}
	if p.SpecificationID != nil && p.ContractID == nil {
		return nil, shared.NewDomainError("SPECIFICATION_CONTRACT_MISMATCH", "Specification requires a contract")
	}
	if len(p.Services) == 0 {
		return nil, shared.NewDomainError("NO_SERVICES", "Realization must have at least one service")
	}
	for _, in := range p.Services {
		if err := in.validate(); err != nil {
			return nil, err
		}
	}

	date := shared.NormalizeDate(p.Date)
	r := &Realization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              date,
		Source:            p.Source,
		Month:             int(date.Month()),
		Year:              date.Year(),
		PaidAmount:        decimal.Zero,
		CounterpartyID:    p.CounterpartyID,
		ContractID:        p.ContractID,
		SpecificationID:   p.SpecificationID,
		ManagerID:         p.ManagerID,
	}
	r.Services = make([]RealizationService, 0, len(p.Services))
	for _, in := range p.Services {
		r.Services = append(r.Services, newRealizationService(r.ID, in))
	}
	r.PaymentStatus = DeriveStatus(r.TotalSale(), r.PaidAmount)
	return r, nil
}

// Period returns the billing month of the realization
func (r *Realization) Period() Period {
	return Period{Year: r.Year, Month: r.Month}
}

// TotalSale is the sum of the sale amounts of all service lines
func (r *Realization) TotalSale() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Services {
		total = total.Add(s.SaleAmount)
	}
	return total
}

// TotalExpense is the sum of the expense amounts of all service lines
func (r *Realization) TotalExpense() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Services {
		total = total.Add(s.ExpenseAmount)
	}
	return total
}

// DebtAmount is the unpaid part of the realization. It is negative only when
// stored data is already inconsistent.
func (r *Realization) DebtAmount() decimal.Decimal {
	return r.TotalSale().Sub(r.PaidAmount)
}

// CheckConsistency reports a fault when persisted amounts break the realization invariants
func (r *Realization) CheckConsistency() error {
	if r.PaidAmount.IsNegative() {
		return shared.NewConsistencyFault("NEGATIVE_PAID_AMOUNT",
			fmt.Sprintf("Realization %s has negative paid amount %s", r.ID, r.PaidAmount.StringFixed(2)))
	}
	if r.DebtAmount().IsNegative() {
		return shared.NewConsistencyFault("NEGATIVE_DEBT",
			fmt.Sprintf("Realization %s is overpaid: total %s, paid %s", r.ID, r.TotalSale().StringFixed(2), r.PaidAmount.StringFixed(2)))
	}
	return nil
}

// ApplyPayment books an allocated amount against the realization.
// The amount must be positive and not exceed the current debt.
func (r *Realization) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocated amount must be positive")
	}
	if err := r.CheckConsistency(); err != nil {
		return err
	}
	if amount.GreaterThan(r.DebtAmount()) {
		return shared.NewDomainError("OVER_ALLOCATION",
			fmt.Sprintf("Cannot allocate %s to realization %s with debt %s", amount.StringFixed(2), r.ID, r.DebtAmount().StringFixed(2)))
	}
	r.PaidAmount = r.PaidAmount.Add(amount)
	r.refreshStatus()
	return nil
}

// ReversePayment takes back a previously allocated amount
func (r *Realization) ReversePayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewConsistencyFault("INVALID_ALLOCATION", "Stored allocation amount must be positive")
	}
	paid := r.PaidAmount.Sub(amount)
	if paid.IsNegative() {
		return shared.NewConsistencyFault("NEGATIVE_PAID_AMOUNT",
			fmt.Sprintf("Reversing %s would make paid amount of realization %s negative", amount.StringFixed(2), r.ID))
	}
	r.PaidAmount = paid
	r.refreshStatus()
	return nil
}

// UpdateService edits a service line. The new total may not drop below what is already paid.
func (r *Realization) UpdateService(serviceID uuid.UUID, in ServiceInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	idx := -1
	for i := range r.Services {
		if r.Services[i].ID == serviceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.NewDomainError("SERVICE_NOT_FOUND", "Service line not found in realization")
	}

	updated := newRealizationService(r.ID, in)
	updated.ID = serviceID
	newTotal := r.TotalSale().Sub(r.Services[idx].SaleAmount).Add(updated.SaleAmount)
	if newTotal.LessThan(r.PaidAmount) {
		return shared.NewDomainError("TOTAL_BELOW_PAID",
			fmt.Sprintf("Total %s cannot be less than already paid %s", newTotal.StringFixed(2), r.PaidAmount.StringFixed(2)))
	}
	r.Services[idx] = updated
	r.refreshStatus()
	return nil
}

// CanDelete returns an error when the realization already received money
func (r *Realization) CanDelete() error {
	if !r.PaidAmount.IsZero() {
		return shared.NewDomainError("REALIZATION_PAID", "Cannot delete a realization with allocated payments")
	}
	return nil
}

func (r *Realization) refreshStatus() {
	r.PaymentStatus = DeriveStatus(r.TotalSale(), r.PaidAmount)
	r.Touch()
	r.IncrementVersion()
}
