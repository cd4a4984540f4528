package models

import (
	"encoding/json"

	"github.com/adspace/backoffice/internal/domain/partner"
	"gorm.io/datatypes"
)

// CounterpartyModel is the persistence model for the Counterparty domain entity.
type CounterpartyModel struct {
	AggregateModel
	Type      partner.CounterpartyType `gorm:"type:varchar(10);not null"`
	FullName  string                   `gorm:"type:varchar(255);not null"`
	BrandName string                   `gorm:"type:varchar(255)"`
	INN       string                   `gorm:"column:inn;type:varchar(12);index"`
	Contacts  datatypes.JSON           `gorm:"type:jsonb"`
	Notes     string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CounterpartyModel) TableName() string {
	return "counterparties"
}

// ToDomain converts the persistence model to a domain Counterparty entity.
// Unreadable contact JSON yields an empty contact list.
func (m *CounterpartyModel) ToDomain() *partner.Counterparty {
	contacts := make([]partner.Contact, 0)
	if len(m.Contacts) > 0 {
		if err := json.Unmarshal(m.Contacts, &contacts); err != nil {
			contacts = make([]partner.Contact, 0)
		}
	}
	return &partner.Counterparty{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Type:              m.Type,
		FullName:          m.FullName,
		BrandName:         m.BrandName,
		INN:               m.INN,
		Contacts:          contacts,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Counterparty entity.
func (m *CounterpartyModel) FromDomain(c *partner.Counterparty) error {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Type = c.Type
	m.FullName = c.FullName
	m.BrandName = c.BrandName
	m.INN = c.INN
	m.Notes = c.Notes
	contacts := c.Contacts
	if contacts == nil {
		contacts = []partner.Contact{}
	}
	raw, err := json.Marshal(contacts)
	if err != nil {
		return err
	}
	m.Contacts = datatypes.JSON(raw)
	return nil
}
