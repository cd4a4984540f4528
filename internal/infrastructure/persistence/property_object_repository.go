package persistence

import (
	"context"
	"errors"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPropertyObjectRepository implements PropertyObjectRepository using GORM
type GormPropertyObjectRepository struct {
	db *gorm.DB
}

// NewGormPropertyObjectRepository creates a new GormPropertyObjectRepository
func NewGormPropertyObjectRepository(db *gorm.DB) *GormPropertyObjectRepository {
	return &GormPropertyObjectRepository{db: db}
}

// FindByID finds a property object by ID; returns nil when absent
func (r *GormPropertyObjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.PropertyObject, error) {
	var model models.PropertyObjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbErr("find property object", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists property objects matching the filter
func (r *GormPropertyObjectRepository) FindAll(ctx context.Context, filter catalog.PropertyObjectFilter) ([]catalog.PropertyObject, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PropertyObjectModel{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", p, p)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, dbErr("count property objects", err)
	}
	var rows []models.PropertyObjectModel
	if err := propertyObjectSort.page(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, 0, dbErr("list property objects", err)
	}
	out := make([]catalog.PropertyObject, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Save inserts or updates a property object
func (r *GormPropertyObjectRepository) Save(ctx context.Context, obj *catalog.PropertyObject) error {
	m := &models.PropertyObjectModel{}
	m.FromDomain(obj)
	return dbErr("save property object", r.db.WithContext(ctx).Save(m).Error)
}

// Delete removes a property object
func (r *GormPropertyObjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbErr("delete property object", r.db.WithContext(ctx).Delete(&models.PropertyObjectModel{}, "id = ?", id).Error)
}

// CountServiceReferences counts specification and realization service lines pointing at the object
func (r *GormPropertyObjectRepository) CountServiceReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var total int64
	for _, m := range []any{&models.SpecificationServiceModel{}, &models.RealizationServiceModel{}} {
		var n int64
		if err := r.db.WithContext(ctx).Model(m).Where("property_object_id = ?", id).Count(&n).Error; err != nil {
			return 0, dbErr("count property object references", err)
		}
		total += n
	}
	return total, nil
}

// Ensure GormPropertyObjectRepository implements PropertyObjectRepository
var _ catalog.PropertyObjectRepository = (*GormPropertyObjectRepository)(nil)
