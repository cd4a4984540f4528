package contract

import (
	"time"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/contract"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateContractRequest creates a contract
type CreateContractRequest struct {
	Number         string    `json:"number" binding:"required,max=50"`
	Date           string    `json:"date" binding:"required"`
	AppEndDate     string    `json:"app_end_date"`
	PavilionNumber string    `json:"pavilion_number" binding:"max=50"`
	CounterpartyID uuid.UUID `json:"counterparty_id" binding:"required"`
	ManagerID      uuid.UUID `json:"manager_id" binding:"required"`
	Category       string    `json:"category" binding:"required"`
}

// SpecificationRequest adds a specification to a contract
type SpecificationRequest struct {
	Number      string `json:"number" binding:"required,max=50"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Description string `json:"description"`
}

// ServiceRequest adds a billable service line to a specification
type ServiceRequest struct {
	Description      string          `json:"description" binding:"required,max=500"`
	BillingType      string          `json:"billing_type" binding:"required,oneof=MONTHLY ONE_TIME"`
	Amount           decimal.Decimal `json:"amount"`
	ServiceType      string          `json:"service_type" binding:"required"`
	PropertyObjectID *uuid.UUID      `json:"property_object_id"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
}

func (r ServiceRequest) toLine() (contract.ServiceLine, error) {
	line := contract.ServiceLine{
		Description:      r.Description,
		BillingType:      contract.BillingType(r.BillingType),
		Amount:           r.Amount,
		ServiceType:      catalog.ServiceType(r.ServiceType),
		PropertyObjectID: r.PropertyObjectID,
	}
	var err error
	if line.StartDate, err = optionalDate(r.StartDate); err != nil {
		return line, err
	}
	if line.EndDate, err = optionalDate(r.EndDate); err != nil {
		return line, err
	}
	return line, nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := shared.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ServiceResponse represents a specification service in API responses
type ServiceResponse struct {
	ID               uuid.UUID       `json:"id"`
	Description      string          `json:"description"`
	BillingType      string          `json:"billing_type"`
	Amount           decimal.Decimal `json:"amount"`
	ServiceType      string          `json:"service_type"`
	ServiceTypeLabel string          `json:"service_type_label"`
	PropertyObjectID *uuid.UUID      `json:"property_object_id,omitempty"`
	StartDate        *time.Time      `json:"start_date,omitempty"`
	EndDate          *time.Time      `json:"end_date,omitempty"`
}

// SpecificationResponse represents a specification in API responses
type SpecificationResponse struct {
	ID          uuid.UUID         `json:"id"`
	Number      string            `json:"number"`
	StartDate   time.Time         `json:"start_date"`
	EndDate     time.Time         `json:"end_date"`
	Description string            `json:"description"`
	Services    []ServiceResponse `json:"services"`
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID             uuid.UUID               `json:"id"`
	Number         string                  `json:"number"`
	Date           time.Time               `json:"date"`
	AppEndDate     *time.Time              `json:"app_end_date,omitempty"`
	PavilionNumber string                  `json:"pavilion_number"`
	Status         string                  `json:"status"`
	CounterpartyID uuid.UUID               `json:"counterparty_id"`
	ManagerID      uuid.UUID               `json:"manager_id"`
	Category       string                  `json:"category"`
	CategoryLabel  string                  `json:"category_label"`
	Specifications []SpecificationResponse `json:"specifications"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	Version        int                     `json:"version"`
}

func toServiceResponse(s *contract.SpecificationService) ServiceResponse {
	return ServiceResponse{
		ID:               s.ID,
		Description:      s.Description,
		BillingType:      string(s.BillingType),
		Amount:           s.Amount,
		ServiceType:      string(s.ServiceType),
		ServiceTypeLabel: s.ServiceType.Label(),
		PropertyObjectID: s.PropertyObjectID,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
	}
}

func toSpecificationResponse(s *contract.Specification) SpecificationResponse {
	services := make([]ServiceResponse, 0, len(s.Services))
	for i := range s.Services {
		services = append(services, toServiceResponse(&s.Services[i]))
	}
	return SpecificationResponse{
		ID:          s.ID,
		Number:      s.Number,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Description: s.Description,
		Services:    services,
	}
}

// ToContractResponse converts a domain contract to its response form
func ToContractResponse(c *contract.Contract) ContractResponse {
	specs := make([]SpecificationResponse, 0, len(c.Specifications))
	for i := range c.Specifications {
		specs = append(specs, toSpecificationResponse(&c.Specifications[i]))
	}
	return ContractResponse{
		ID:             c.ID,
		Number:         c.Number,
		Date:           c.Date,
		AppEndDate:     c.AppEndDate,
		PavilionNumber: c.PavilionNumber,
		Status:         string(c.Status),
		CounterpartyID: c.CounterpartyID,
		ManagerID:      c.ManagerID,
		Category:       string(c.Category),
		CategoryLabel:  c.Category.Label(),
		Specifications: specs,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}

// ContractListFilter represents filter options for contract listings
type ContractListFilter struct {
	Search         string `form:"search"`
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
	ManagerID      string `form:"manager_id" binding:"omitempty,uuid"`
	Status         string `form:"status" binding:"omitempty,oneof=ACTIVE ARCHIVE"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
