package billing

import (
	"time"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateResult reports the outcome of a generation run
type GenerateResult struct {
	Period         string                `json:"period"`
	GeneratedCount int                   `json:"generated_count"`
	Realizations   []RealizationResponse `json:"realizations"`
}

// RealizationServiceResponse represents a realization service line in API responses
type RealizationServiceResponse struct {
	ID               uuid.UUID       `json:"id"`
	Description      string          `json:"description"`
	SaleAmount       decimal.Decimal `json:"sale_amount"`
	ExpenseAmount    decimal.Decimal `json:"expense_amount"`
	ServiceType      string          `json:"service_type"`
	ServiceTypeLabel string          `json:"service_type_label"`
	PropertyObjectID *uuid.UUID      `json:"property_object_id,omitempty"`
}

// RealizationAllocationResponse is one payment share covering a realization
type RealizationAllocationResponse struct {
	PaymentID   uuid.UUID       `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	AllocatedAt time.Time       `json:"allocated_at"`
}

// RealizationResponse represents a realization in API responses
type RealizationResponse struct {
	ID                     uuid.UUID                       `json:"id"`
	Date                   time.Time                       `json:"date"`
	Source                 string                          `json:"source"`
	Period                 string                          `json:"period"`
	Month                  int                             `json:"month"`
	Year                   int                             `json:"year"`
	TotalSale              decimal.Decimal                 `json:"total_sale"`
	TotalExpense           decimal.Decimal                 `json:"total_expense"`
	PaidAmount             decimal.Decimal                 `json:"paid_amount"`
	DebtAmount             decimal.Decimal                 `json:"debt_amount"`
	PaymentStatus          string                          `json:"payment_status"`
	CounterpartyID         uuid.UUID                       `json:"counterparty_id"`
	ContractID             *uuid.UUID                      `json:"contract_id,omitempty"`
	SpecificationID        *uuid.UUID                      `json:"specification_id,omitempty"`
	SpecificationServiceID *uuid.UUID                      `json:"specification_service_id,omitempty"`
	ManagerID              uuid.UUID                       `json:"manager_id"`
	Services               []RealizationServiceResponse    `json:"services"`
	Allocations            []RealizationAllocationResponse `json:"allocations,omitempty"`
	CreatedAt              time.Time                       `json:"created_at"`
	UpdatedAt              time.Time                       `json:"updated_at"`
	Version                int                             `json:"version"`
}

// ToRealizationResponse converts a domain realization to its response form
func ToRealizationResponse(r *billing.Realization) RealizationResponse {
	services := make([]RealizationServiceResponse, 0, len(r.Services))
	for _, s := range r.Services {
		services = append(services, RealizationServiceResponse{
			ID:               s.ID,
			Description:      s.Description,
			SaleAmount:       s.SaleAmount,
			ExpenseAmount:    s.ExpenseAmount,
			ServiceType:      string(s.ServiceType),
			ServiceTypeLabel: s.ServiceType.Label(),
			PropertyObjectID: s.PropertyObjectID,
		})
	}
	return RealizationResponse{
		ID:                     r.ID,
		Date:                   r.Date,
		Source:                 string(r.Source),
		Period:                 r.Period().String(),
		Month:                  r.Month,
		Year:                   r.Year,
		TotalSale:              r.TotalSale(),
		TotalExpense:           r.TotalExpense(),
		PaidAmount:             r.PaidAmount,
		DebtAmount:             r.DebtAmount(),
		PaymentStatus:          string(r.PaymentStatus),
		CounterpartyID:         r.CounterpartyID,
		ContractID:             r.ContractID,
		SpecificationID:        r.SpecificationID,
		SpecificationServiceID: r.SpecificationServiceID,
		ManagerID:              r.ManagerID,
		Services:               services,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
		Version:                r.Version,
	}
}

// ServiceLineRequest is one service line of a manual realization
type ServiceLineRequest struct {
	Description      string          `json:"description" binding:"required,max=500"`
	SaleAmount       decimal.Decimal `json:"sale_amount"`
	ExpenseAmount    decimal.Decimal `json:"expense_amount"`
	ServiceType      string          `json:"service_type" binding:"required"`
	PropertyObjectID *uuid.UUID      `json:"property_object_id"`
}

func (l ServiceLineRequest) toInput() billing.ServiceInput {
	return billing.ServiceInput{
		Description:      l.Description,
		SaleAmount:       l.SaleAmount,
		ExpenseAmount:    l.ExpenseAmount,
		ServiceType:      catalog.ServiceType(l.ServiceType),
		PropertyObjectID: l.PropertyObjectID,
	}
}

// CreateRealizationRequest creates a MANUAL or ONCE realization
type CreateRealizationRequest struct {
	Date            string               `json:"date" binding:"required"` // YYYY-MM-DD
	Source          string               `json:"source" binding:"required,oneof=MANUAL ONCE"`
	CounterpartyID  uuid.UUID            `json:"counterparty_id" binding:"required"`
	ManagerID       uuid.UUID            `json:"manager_id" binding:"required"`
	ContractID      *uuid.UUID           `json:"contract_id"`
	SpecificationID *uuid.UUID           `json:"specification_id"`
	Services        []ServiceLineRequest `json:"services" binding:"required,min=1,dive"`
}

// RealizationListFilter represents filter options for realization listings
type RealizationListFilter struct {
	CounterpartyID  string `form:"counterparty_id" binding:"omitempty,uuid"`
	ContractID      string `form:"contract_id" binding:"omitempty,uuid"`
	ManagerID       string `form:"manager_id" binding:"omitempty,uuid"`
	Period          string `form:"period"`
	PaymentStatus   string `form:"payment_status" binding:"omitempty,oneof=NOT_PAID PARTIALLY_PAID PAID"`
	Source          string `form:"source" binding:"omitempty,oneof=AUTO MANUAL ONCE"`
	OnlyOutstanding bool   `form:"only_outstanding"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ExportRow is one line of the realization spreadsheet
type ExportRow struct {
	Date          time.Time
	Counterparty  string
	INN           string
	Contract      string
	Description   string
	ServiceType   string
	SaleAmount    decimal.Decimal
	ExpenseAmount decimal.Decimal
	PaidAmount    decimal.Decimal
	DebtAmount    decimal.Decimal
	Status        string
}

// ExportFile is a rendered export ready to be streamed
type ExportFile struct {
	Name        string
	ContentType string
	Content     []byte
}
