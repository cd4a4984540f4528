package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingType tells how a service line is billed
type BillingType string

const (
	BillingTypeMonthly BillingType = "MONTHLY"
	BillingTypeOneTime BillingType = "ONE_TIME"
)

// IsValid checks if the billing type is valid
func (b BillingType) IsValid() bool {
	switch b {
	case BillingTypeMonthly, BillingTypeOneTime:
		return true
	}
	return false
}

// String returns the string representation of BillingType
func (b BillingType) String() string {
	return string(b)
}

// Specification is a contract addendum with a validity window and service lines
type Specification struct {
	ID          uuid.UUID              `json:"id"`
	ContractID  uuid.UUID              `json:"contract_id"`
	Number      string                 `json:"number"`
	StartDate   time.Time              `json:"start_date"`
	EndDate     time.Time              `json:"end_date"`
	Description string                 `json:"description"`
	Services    []SpecificationService `json:"services"`
	CreatedAt   time.Time              `json:"created_at"`
}

func newSpecification(contractID uuid.UUID, number string, start, end time.Time, description string) (*Specification, error) {
	if start.IsZero() || end.IsZero() {
		return nil, shared.NewDomainError("INVALID_SPECIFICATION_PERIOD", "Specification start and end dates are required")
	}
	start, end = shared.NormalizeDate(start), shared.NormalizeDate(end)
	if start.After(end) {
		return nil, shared.NewDomainError("INVALID_SPECIFICATION_PERIOD", "Specification start date must not be after end date")
	}
	return &Specification{
		ID:          uuid.New(),
		ContractID:  contractID,
		Number:      number,
		StartDate:   start,
		EndDate:     end,
		Description: strings.TrimSpace(description),
		Services:    make([]SpecificationService, 0),
		CreatedAt:   time.Now(),
	}, nil
}

// Overlaps reports whether the specification window intersects [start, end]
func (s *Specification) Overlaps(start, end time.Time) bool {
	return !s.StartDate.After(end) && !s.EndDate.Before(start)
}

// Contains reports whether d lies inside the specification window
func (s *Specification) Contains(d time.Time) bool {
	return !d.Before(s.StartDate) && !d.After(s.EndDate)
}

// ServiceLine holds the fields of a new specification service
type ServiceLine struct {
	Description      string
	BillingType      BillingType
	Amount           decimal.Decimal
	ServiceType      catalog.ServiceType
	PropertyObjectID *uuid.UUID
	StartDate        *time.Time
	EndDate          *time.Time
}

// AddService adds a billable line; its dates must lie within the specification window
func (s *Specification) AddService(line ServiceLine) (*SpecificationService, error) {
	description := strings.TrimSpace(line.Description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Service description cannot be empty")
	}
	if !line.BillingType.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_TYPE", "Billing type must be MONTHLY or ONE_TIME")
	}
	if !line.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Service amount must be positive")
	}
	if !line.ServiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SERVICE_TYPE", "Service type is not valid")
	}

	svc := SpecificationService{
		ID:               uuid.New(),
		SpecificationID:  s.ID,
		Description:      description,
		BillingType:      line.BillingType,
		Amount:           line.Amount.Round(2),
		ServiceType:      line.ServiceType,
		PropertyObjectID: line.PropertyObjectID,
	}
	if line.StartDate != nil {
		d := shared.NormalizeDate(*line.StartDate)
		svc.StartDate = &d
	}
	if line.EndDate != nil {
		d := shared.NormalizeDate(*line.EndDate)
		svc.EndDate = &d
	}
	if err := s.checkServiceDates(&svc); err != nil {
		return nil, err
	}

	s.Services = append(s.Services, svc)
	return &s.Services[len(s.Services)-1], nil
}

func (s *Specification) checkServiceDates(svc *SpecificationService) error {
	if svc.StartDate != nil && !s.Contains(*svc.StartDate) {
		return shared.NewDomainError("SERVICE_OUTSIDE_SPECIFICATION",
			fmt.Sprintf("Service start date must lie within specification %s", s.Number))
	}
	if svc.EndDate != nil && !s.Contains(*svc.EndDate) {
		return shared.NewDomainError("SERVICE_OUTSIDE_SPECIFICATION",
			fmt.Sprintf("Service end date must lie within specification %s", s.Number))
	}
	if svc.StartDate != nil && svc.EndDate != nil && svc.StartDate.After(*svc.EndDate) {
		return shared.NewDomainError("INVALID_SERVICE_PERIOD", "Service start date must not be after end date")
	}
	return nil
}

// Service returns the service line with the given ID
func (s *Specification) Service(id uuid.UUID) (*SpecificationService, bool) {
	for i := range s.Services {
		if s.Services[i].ID == id {
			return &s.Services[i], true
		}
	}
	return nil, false
}

// SpecificationService is a billable line template
type SpecificationService struct {
	ID               uuid.UUID           `json:"id"`
	SpecificationID  uuid.UUID           `json:"specification_id"`
	Description      string              `json:"description"`
	BillingType      BillingType         `json:"billing_type"`
	Amount           decimal.Decimal     `json:"amount"`
	ServiceType      catalog.ServiceType `json:"service_type"`
	PropertyObjectID *uuid.UUID          `json:"property_object_id,omitempty"`
	StartDate        *time.Time          `json:"start_date,omitempty"`
	EndDate          *time.Time          `json:"end_date,omitempty"`
}

// EffectiveInterval returns the service dates, falling back to the specification window
// for whichever bound is not set on the service.
func (svc *SpecificationService) EffectiveInterval(spec *Specification) (time.Time, time.Time) {
	start := spec.StartDate
	if svc.StartDate != nil {
		start = *svc.StartDate
	}
	end := spec.EndDate
	if svc.EndDate != nil {
		end = *svc.EndDate
	}
	return start, end
}

// ActiveWithin reports whether the service is effective on any day of [start, end]
func (svc *SpecificationService) ActiveWithin(spec *Specification, start, end time.Time) bool {
	from, to := svc.EffectiveInterval(spec)
	return shared.IntervalsOverlap(from, &to, start, end)
}
