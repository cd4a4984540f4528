package models

import (
	"github.com/adspace/backoffice/internal/domain/catalog"
)

// PropertyObjectModel is the persistence model for the PropertyObject domain entity.
type PropertyObjectModel struct {
	AggregateModel
	Name            string                     `gorm:"type:varchar(255);not null;index"`
	Type            catalog.PropertyObjectType `gorm:"type:varchar(30);not null"`
	Characteristics string                     `gorm:"type:text"`
	Location        string                     `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (PropertyObjectModel) TableName() string {
	return "property_objects"
}

// ToDomain converts the persistence model to a domain PropertyObject entity.
func (m *PropertyObjectModel) ToDomain() *catalog.PropertyObject {
	return &catalog.PropertyObject{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Type:              m.Type,
		Characteristics:   m.Characteristics,
		Location:          m.Location,
	}
}

// FromDomain populates the persistence model from a domain PropertyObject entity.
func (m *PropertyObjectModel) FromDomain(p *catalog.PropertyObject) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Type = p.Type
	m.Characteristics = p.Characteristics
	m.Location = p.Location
}
