package partner

import (
	"time"

	"github.com/adspace/backoffice/internal/domain/partner"
	"github.com/google/uuid"
)

// ContactRequest is one contact person of a counterparty
type ContactRequest struct {
	Name     string `json:"name" binding:"max=100"`
	Position string `json:"position" binding:"max=100"`
	Phone    string `json:"phone" binding:"max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// CounterpartyRequest creates or updates a counterparty
type CounterpartyRequest struct {
	Type      string           `json:"type" binding:"required,oneof=LLC IP"`
	FullName  string           `json:"full_name" binding:"required,max=255"`
	BrandName string           `json:"brand_name" binding:"max=255"`
	INN       string           `json:"inn" binding:"omitempty,numeric"`
	Contacts  []ContactRequest `json:"contacts" binding:"dive"`
	Notes     string           `json:"notes"`
}

func (r CounterpartyRequest) contacts() []partner.Contact {
	out := make([]partner.Contact, 0, len(r.Contacts))
	for _, c := range r.Contacts {
		out = append(out, partner.Contact{Name: c.Name, Position: c.Position, Phone: c.Phone, Email: c.Email})
	}
	return out
}

// CounterpartyResponse represents a counterparty in API responses
type CounterpartyResponse struct {
	ID          uuid.UUID         `json:"id"`
	Type        string            `json:"type"`
	FullName    string            `json:"full_name"`
	BrandName   string            `json:"brand_name"`
	DisplayName string            `json:"display_name"`
	INN         string            `json:"inn"`
	Contacts    []partner.Contact `json:"contacts"`
	Notes       string            `json:"notes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Version     int               `json:"version"`
}

// ToCounterpartyResponse converts a domain counterparty to its response form
func ToCounterpartyResponse(c *partner.Counterparty) CounterpartyResponse {
	contacts := c.Contacts
	if contacts == nil {
		contacts = []partner.Contact{}
	}
	return CounterpartyResponse{
		ID:          c.ID,
		Type:        string(c.Type),
		FullName:    c.FullName,
		BrandName:   c.BrandName,
		DisplayName: c.DisplayName(),
		INN:         c.INN,
		Contacts:    contacts,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// CounterpartyListFilter represents filter options for counterparty listings
type CounterpartyListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=LLC IP"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
