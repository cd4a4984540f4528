package finance

import (
	"time"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequest carries the fields of a payment to create or replace.
// RealizationIDs is the allocation worklist, applied in the given order.
type PaymentRequest struct {
	PaymentDate    string          `json:"payment_date" binding:"required"` // YYYY-MM-DD
	Amount         decimal.Decimal `json:"amount"`
	PaymentType    string          `json:"payment_type" binding:"required,oneof=CASH NON_CASH"`
	CounterpartyID uuid.UUID       `json:"counterparty_id" binding:"required"`
	ContractID     *uuid.UUID      `json:"contract_id"`
	Comment        string          `json:"comment" binding:"max=1000"`
	RealizationIDs []uuid.UUID     `json:"realization_ids"`
}

// AllocationResponse represents one allocation link
type AllocationResponse struct {
	ID            uuid.UUID       `json:"id"`
	RealizationID uuid.UUID       `json:"realization_id"`
	Amount        decimal.Decimal `json:"amount"`
	AllocatedAt   time.Time       `json:"allocated_at"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                uuid.UUID            `json:"id"`
	PaymentDate       time.Time            `json:"payment_date"`
	InitialAmount     decimal.Decimal      `json:"initial_amount"`
	AllocatedAmount   decimal.Decimal      `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal      `json:"unallocated_amount"`
	PaymentType       string               `json:"payment_type"`
	CounterpartyID    uuid.UUID            `json:"counterparty_id"`
	ContractID        *uuid.UUID           `json:"contract_id,omitempty"`
	Comment           string               `json:"comment"`
	Allocations       []AllocationResponse `json:"allocations"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Version           int                  `json:"version"`
}

// ToPaymentResponse converts a domain payment to its response form
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	allocations := make([]AllocationResponse, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		allocations = append(allocations, AllocationResponse{
			ID:            a.ID,
			RealizationID: a.RealizationID,
			Amount:        a.Amount,
			AllocatedAt:   a.AllocatedAt,
		})
	}
	return PaymentResponse{
		ID:                p.ID,
		PaymentDate:       p.PaymentDate,
		InitialAmount:     p.InitialAmount,
		AllocatedAmount:   p.AllocatedAmount(),
		UnallocatedAmount: p.UnallocatedAmount,
		PaymentType:       string(p.PaymentType),
		CounterpartyID:    p.CounterpartyID,
		ContractID:        p.ContractID,
		Comment:           p.Comment,
		Allocations:       allocations,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

// RealizationState is the payment-relevant state of a realization after an operation
type RealizationState struct {
	ID            uuid.UUID       `json:"id"`
	TotalSale     decimal.Decimal `json:"total_sale"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DebtAmount    decimal.Decimal `json:"debt_amount"`
	PaymentStatus string          `json:"payment_status"`
}

func toRealizationStates(rs []*billing.Realization) []RealizationState {
	out := make([]RealizationState, 0, len(rs))
	for _, r := range rs {
		out = append(out, RealizationState{
			ID:            r.ID,
			TotalSale:     r.TotalSale(),
			PaidAmount:    r.PaidAmount,
			DebtAmount:    r.DebtAmount(),
			PaymentStatus: string(r.PaymentStatus),
		})
	}
	return out
}

// PaymentResult reports a created or updated payment and the realizations it touched
type PaymentResult struct {
	Payment      PaymentResponse    `json:"payment"`
	Allocated    decimal.Decimal    `json:"allocated"`
	Advance      decimal.Decimal    `json:"advance"`
	Realizations []RealizationState `json:"realizations"`
}

// DeleteResult reports a deleted payment and the realizations it released
type DeleteResult struct {
	PaymentID    uuid.UUID          `json:"payment_id"`
	Reversed     decimal.Decimal    `json:"reversed"`
	Realizations []RealizationState `json:"realizations"`
}

// PaymentListFilter represents filter options for payment listings
type PaymentListFilter struct {
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
	ContractID     string `form:"contract_id" binding:"omitempty,uuid"`
	PaymentType    string `form:"payment_type" binding:"omitempty,oneof=CASH NON_CASH"`
	DateFrom       string `form:"date_from"`
	DateTo         string `form:"date_to"`
	HasAdvance     *bool  `form:"has_advance"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
