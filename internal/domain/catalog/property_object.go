package catalog

import (
	"context"
	"strings"

	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// PropertyObject is a leasable advertising object (screen, pavilion, banner...)
type PropertyObject struct {
	shared.BaseAggregateRoot
	Name            string             `json:"name"`
	Type            PropertyObjectType `json:"type"`
	Characteristics string             `json:"characteristics"`
	Location        string             `json:"location"`
}

// NewPropertyObject creates a new property object
func NewPropertyObject(name string, objectType PropertyObjectType, characteristics, location string) (*PropertyObject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Property object name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Property object name cannot exceed 255 characters")
	}
	if !objectType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OBJECT_TYPE", "Property object type is not valid")
	}

	return &PropertyObject{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              objectType,
		Characteristics:   strings.TrimSpace(characteristics),
		Location:          strings.TrimSpace(location),
	}, nil
}

// Update changes the descriptive fields of the object
func (p *PropertyObject) Update(name string, objectType PropertyObjectType, characteristics, location string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Property object name cannot be empty")
	}
	if !objectType.IsValid() {
		return shared.NewDomainError("INVALID_OBJECT_TYPE", "Property object type is not valid")
	}
	p.Name = name
	p.Type = objectType
	p.Characteristics = strings.TrimSpace(characteristics)
	p.Location = strings.TrimSpace(location)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// PropertyObjectFilter narrows property object listings
type PropertyObjectFilter struct {
	shared.Filter
	Type *PropertyObjectType
}

// PropertyObjectRepository persists property objects
type PropertyObjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PropertyObject, error)
	FindAll(ctx context.Context, filter PropertyObjectFilter) ([]PropertyObject, int64, error)
	Save(ctx context.Context, obj *PropertyObject) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountServiceReferences counts specification and realization service lines pointing at the object
	CountServiceReferences(ctx context.Context, id uuid.UUID) (int64, error)
}
