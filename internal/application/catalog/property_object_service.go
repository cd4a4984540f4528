package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyObjectRequest creates or updates a property object
type PropertyObjectRequest struct {
	Name            string `json:"name" binding:"required,max=255"`
	Type            string `json:"type" binding:"required"`
	Characteristics string `json:"characteristics"`
	Location        string `json:"location" binding:"max=255"`
}

// PropertyObjectResponse represents a property object in API responses
type PropertyObjectResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	TypeLabel       string    `json:"type_label"`
	Characteristics string    `json:"characteristics"`
	Location        string    `json:"location"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DictionaryEntry is a code with its display label
type DictionaryEntry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Dictionaries lists the closed enumerations used by forms
type Dictionaries struct {
	PropertyObjectTypes []DictionaryEntry `json:"property_object_types"`
	ServiceTypes        []DictionaryEntry `json:"service_types"`
	BusinessCategories  []DictionaryEntry `json:"business_categories"`
}

// PropertyObjectListFilter represents filter options for property object listings
type PropertyObjectListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func toResponse(p *catalog.PropertyObject) PropertyObjectResponse {
	return PropertyObjectResponse{
		ID:              p.ID,
		Name:            p.Name,
		Type:            string(p.Type),
		TypeLabel:       p.Type.Label(),
		Characteristics: p.Characteristics,
		Location:        p.Location,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// PropertyObjectService manages leasable property objects
type PropertyObjectService struct {
	repo   catalog.PropertyObjectRepository
	logger *zap.Logger
}

// NewPropertyObjectService creates a new PropertyObjectService
func NewPropertyObjectService(repo catalog.PropertyObjectRepository, log *zap.Logger) *PropertyObjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PropertyObjectService{repo: repo, logger: log}
}

// Create creates a property object
func (s *PropertyObjectService) Create(ctx context.Context, req PropertyObjectRequest) (*PropertyObjectResponse, error) {
	obj, err := catalog.NewPropertyObject(req.Name, catalog.PropertyObjectType(req.Type), req.Characteristics, req.Location)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, obj); err != nil {
		return nil, err
	}
	resp := toResponse(obj)
	return &resp, nil
}

// GetByID retrieves a property object
func (s *PropertyObjectService) GetByID(ctx context.Context, id uuid.UUID) (*PropertyObjectResponse, error) {
	obj, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(obj)
	return &resp, nil
}

// Update changes a property object
func (s *PropertyObjectService) Update(ctx context.Context, id uuid.UUID, req PropertyObjectRequest) (*PropertyObjectResponse, error) {
	obj, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := obj.Update(req.Name, catalog.PropertyObjectType(req.Type), req.Characteristics, req.Location); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, obj); err != nil {
		return nil, err
	}
	resp := toResponse(obj)
	return &resp, nil
}

// List returns property objects ordered by name
func (s *PropertyObjectService) List(ctx context.Context, filter PropertyObjectListFilter) ([]PropertyObjectResponse, int64, error) {
	df := catalog.PropertyObjectFilter{Filter: shared.DefaultFilter()}
	df.OrderBy, df.OrderDir = "name", "asc"
	df.Search = filter.Search
	if filter.Page > 0 {
		df.Page = filter.Page
	}
	if filter.PageSize > 0 {
		df.PageSize = filter.PageSize
	}
	if filter.Type != "" {
		t := catalog.PropertyObjectType(filter.Type)
		if !t.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_OBJECT_TYPE", "Property object type is not valid")
		}
		df.Type = &t
	}
	items, total, err := s.repo.FindAll(ctx, df)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PropertyObjectResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out, total, nil
}

// Delete removes a property object that no service line points at
func (s *PropertyObjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.CountServiceReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return shared.NewDomainError("PROPERTY_OBJECT_IN_USE",
			fmt.Sprintf("Property object is used by %d service lines", refs))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Property object deleted", zap.String("property_object_id", id.String()))
	return nil
}

// Dictionaries returns the fixed enumerations with their labels
func (s *PropertyObjectService) Dictionaries() Dictionaries {
	d := Dictionaries{}
	for _, t := range catalog.AllPropertyObjectTypes() {
		d.PropertyObjectTypes = append(d.PropertyObjectTypes, DictionaryEntry{Code: string(t), Label: t.Label()})
	}
	for _, t := range catalog.AllServiceTypes() {
		d.ServiceTypes = append(d.ServiceTypes, DictionaryEntry{Code: string(t), Label: t.Label()})
	}
	for _, c := range catalog.AllBusinessCategories() {
		d.BusinessCategories = append(d.BusinessCategories, DictionaryEntry{Code: string(c), Label: c.Label()})
	}
	return d
}

func (s *PropertyObjectService) find(ctx context.Context, id uuid.UUID) (*catalog.PropertyObject, error) {
	obj, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, shared.NewDomainError("PROPERTY_OBJECT_NOT_FOUND", "Property object not found")
	}
	return obj, nil
}
