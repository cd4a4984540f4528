package partner

import (
	"context"
	"strings"

	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// CounterpartyType is the legal form of a counterparty
type CounterpartyType string

const (
	CounterpartyTypeLLC CounterpartyType = "LLC" // limited liability company
	CounterpartyTypeIP  CounterpartyType = "IP"  // individual entrepreneur
)

// IsValid checks if the counterparty type is valid
func (t CounterpartyType) IsValid() bool {
	switch t {
	case CounterpartyTypeLLC, CounterpartyTypeIP:
		return true
	}
	return false
}

// String returns the string representation of CounterpartyType
func (t CounterpartyType) String() string {
	return string(t)
}

// innLength returns the number of digits a taxpayer number has for the legal form
func (t CounterpartyType) innLength() int {
	switch t {
	case CounterpartyTypeLLC:
		return 10
	case CounterpartyTypeIP:
		return 12
	}
	return 0
}

// Contact is a person or channel to reach the counterparty
type Contact struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Counterparty is a tenant leasing advertising space
type Counterparty struct {
	shared.BaseAggregateRoot
	Type      CounterpartyType `json:"type"`
	FullName  string           `json:"full_name"`
	BrandName string           `json:"brand_name"`
	INN       string           `json:"inn"`
	Contacts  []Contact        `json:"contacts"`
	Notes     string           `json:"notes"`
}

// NewCounterparty creates a new counterparty
func NewCounterparty(cpType CounterpartyType, fullName, brandName, inn string) (*Counterparty, error) {
	c := &Counterparty{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Contacts:          make([]Contact, 0),
	}
	if err := c.setDetails(cpType, fullName, brandName, inn); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the requisites of the counterparty
func (c *Counterparty) Update(cpType CounterpartyType, fullName, brandName, inn string) error {
	if err := c.setDetails(cpType, fullName, brandName, inn); err != nil {
		return err
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetContacts replaces the contact list
func (c *Counterparty) SetContacts(contacts []Contact) error {
	for _, ct := range contacts {
		if strings.TrimSpace(ct.Name) == "" && ct.Phone == "" && ct.Email == "" {
			return shared.NewDomainError("INVALID_CONTACT", "Contact must have a name, phone or email")
		}
	}
	c.Contacts = append(make([]Contact, 0, len(contacts)), contacts...)
	return nil
}

// SetNotes sets the free-form notes
func (c *Counterparty) SetNotes(notes string) {
	c.Notes = strings.TrimSpace(notes)
}

// DisplayName prefers the brand name
func (c *Counterparty) DisplayName() string {
	if c.BrandName != "" {
		return c.BrandName
	}
	return c.FullName
}

func (c *Counterparty) setDetails(cpType CounterpartyType, fullName, brandName, inn string) error {
	if !cpType.IsValid() {
		return shared.NewDomainError("INVALID_COUNTERPARTY_TYPE", "Counterparty type must be LLC or IP")
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(fullName) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 255 characters")
	}
	inn = strings.TrimSpace(inn)
	if err := ValidateINN(cpType, inn); err != nil {
		return err
	}
	c.Type = cpType
	c.FullName = fullName
	c.BrandName = strings.TrimSpace(brandName)
	c.INN = inn
	return nil
}

// ValidateINN checks the taxpayer number length for the legal form.
// An empty INN is allowed.
func ValidateINN(cpType CounterpartyType, inn string) error {
	if inn == "" {
		return nil
	}
	want := cpType.innLength()
	if len(inn) != want {
		return shared.NewDomainError("INVALID_INN", "INN has wrong length for the counterparty type")
	}
	for _, r := range inn {
		if r < '0' || r > '9' {
			return shared.NewDomainError("INVALID_INN", "INN must contain digits only")
		}
	}
	return nil
}

// CounterpartyFilter narrows counterparty listings
type CounterpartyFilter struct {
	shared.Filter
	Type *CounterpartyType
}

// CounterpartyRepository persists counterparties
type CounterpartyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Counterparty, error)
	FindByINN(ctx context.Context, inn string) (*Counterparty, error)
	FindAll(ctx context.Context, filter CounterpartyFilter) ([]Counterparty, int64, error)
	Save(ctx context.Context, c *Counterparty) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountReferences counts contracts, realizations and payments of the counterparty
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
}
