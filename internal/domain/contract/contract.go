package contract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Status is the validity status of a contract
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusArchive Status = "ARCHIVE"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusArchive:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Contract is a lease agreement with a counterparty.
// It is the aggregate root for its specifications and their service lines.
type Contract struct {
	shared.BaseAggregateRoot
	Number         string                   `json:"number"`
	Date           time.Time                `json:"date"`
	AppEndDate     *time.Time               `json:"app_end_date,omitempty"`
	PavilionNumber string                   `json:"pavilion_number"`
	Status         Status                   `json:"status"`
	CounterpartyID uuid.UUID                `json:"counterparty_id"`
	ManagerID      uuid.UUID                `json:"manager_id"`
	Category       catalog.BusinessCategory `json:"category"`
	Specifications []Specification          `json:"specifications"`
}

// NewContract creates a new active contract
func NewContract(number string, date time.Time, counterpartyID, managerID uuid.UUID, category catalog.BusinessCategory) (*Contract, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot exceed 50 characters")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_CONTRACT_DATE", "Contract date is required")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if managerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MANAGER", "Manager ID cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Business category is not valid")
	}

	return &Contract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Date:              shared.NormalizeDate(date),
		Status:            StatusActive,
		CounterpartyID:    counterpartyID,
		ManagerID:         managerID,
		Category:          category,
		Specifications:    make([]Specification, 0),
	}, nil
}

// SetAppEndDate sets the end date of the lease application
func (c *Contract) SetAppEndDate(end *time.Time) error {
	if end == nil {
		c.AppEndDate = nil
		return nil
	}
	d := shared.NormalizeDate(*end)
	if d.Before(c.Date) {
		return shared.NewDomainError("INVALID_APP_END_DATE", "Application end date cannot be before the contract date")
	}
	c.AppEndDate = &d
	c.Touch()
	return nil
}

// SetPavilionNumber sets the pavilion number
func (c *Contract) SetPavilionNumber(pavilion string) {
	c.PavilionNumber = strings.TrimSpace(pavilion)
	c.Touch()
}

// IsActive returns true if the contract is billed
func (c *Contract) IsActive() bool {
	return c.Status == StatusActive
}

// Archive stops billing the contract
func (c *Contract) Archive() error {
	if c.Status == StatusArchive {
		return shared.NewDomainError("INVALID_STATE", "Contract is already archived")
	}
	c.Status = StatusArchive
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Activate resumes billing the contract
func (c *Contract) Activate() error {
	if c.Status == StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Contract is already active")
	}
	c.Status = StatusActive
	c.Touch()
	c.IncrementVersion()
	return nil
}

// AddSpecification appends a new addendum to the contract.
// The returned pointer is invalidated by the next AddSpecification call.
func (c *Contract) AddSpecification(number string, start, end time.Time, description string) (*Specification, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_SPECIFICATION_NUMBER", "Specification number cannot be empty")
	}
	for _, s := range c.Specifications {
		if s.Number == number {
			return nil, shared.NewDomainError("SPECIFICATION_EXISTS",
				fmt.Sprintf("Specification %s already exists in contract %s", number, c.Number))
		}
	}
	spec, err := newSpecification(c.ID, number, start, end, description)
	if err != nil {
		return nil, err
	}
	c.Specifications = append(c.Specifications, *spec)
	c.Touch()
	c.IncrementVersion()
	return &c.Specifications[len(c.Specifications)-1], nil
}

// Specification returns the specification with the given ID
func (c *Contract) Specification(id uuid.UUID) (*Specification, bool) {
	for i := range c.Specifications {
		if c.Specifications[i].ID == id {
			return &c.Specifications[i], true
		}
	}
	return nil, false
}

// BillableLine ties a monthly service line to the specification and contract it belongs to
type BillableLine struct {
	Contract      *Contract
	Specification *Specification
	Service       *SpecificationService
}

// MonthlyBillableLines returns the MONTHLY service lines of an active contract whose
// effective interval overlaps [start, end]. Archived contracts yield nothing.
func (c *Contract) MonthlyBillableLines(start, end time.Time) []BillableLine {
	if !c.IsActive() {
		return nil
	}
	var lines []BillableLine
	for i := range c.Specifications {
		spec := &c.Specifications[i]
		if !spec.Overlaps(start, end) {
			continue
		}
		for j := range spec.Services {
			svc := &spec.Services[j]
			if svc.BillingType != BillingTypeMonthly {
				continue
			}
			if !svc.ActiveWithin(spec, start, end) {
				continue
			}
			lines = append(lines, BillableLine{Contract: c, Specification: spec, Service: svc})
		}
	}
	return lines
}

// Filter narrows contract listings
type Filter struct {
	shared.Filter
	CounterpartyID *uuid.UUID
	ManagerID      *uuid.UUID
	Status         *Status
}

// Repository persists contracts together with their specifications and services
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindByNumber(ctx context.Context, number string) (*Contract, error)
	FindAll(ctx context.Context, filter Filter) ([]Contract, int64, error)
	// FindActiveForPeriod loads ACTIVE contracts with the specifications overlapping [start, end]
	FindActiveForPeriod(ctx context.Context, start, end time.Time) ([]Contract, error)
	Save(ctx context.Context, c *Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountReferences counts realizations and payments that point at the contract
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
}
