package persistence

import (
	"context"
	"errors"

	"github.com/adspace/backoffice/internal/domain/partner"
	"github.com/adspace/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCounterpartyRepository implements CounterpartyRepository using GORM
type GormCounterpartyRepository struct {
	db *gorm.DB
}

// NewGormCounterpartyRepository creates a new GormCounterpartyRepository
func NewGormCounterpartyRepository(db *gorm.DB) *GormCounterpartyRepository {
	return &GormCounterpartyRepository{db: db}
}

// FindByID finds a counterparty by ID; returns nil when absent
func (r *GormCounterpartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Counterparty, error) {
	var model models.CounterpartyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbErr("find counterparty", err)
	}
	return model.ToDomain(), nil
}

// FindByINN finds a counterparty by taxpayer number
func (r *GormCounterpartyRepository) FindByINN(ctx context.Context, inn string) (*partner.Counterparty, error) {
	var model models.CounterpartyModel
	if err := r.db.WithContext(ctx).Where("inn = ?", inn).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbErr("find counterparty by inn", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists counterparties matching the filter
func (r *GormCounterpartyRepository) FindAll(ctx context.Context, filter partner.CounterpartyFilter) ([]partner.Counterparty, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CounterpartyModel{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(brand_name) LIKE ? OR inn LIKE ?", p, p, p)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, dbErr("count counterparties", err)
	}
	var rows []models.CounterpartyModel
	if err := counterpartySort.page(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, 0, dbErr("list counterparties", err)
	}
	out := make([]partner.Counterparty, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Save inserts or updates a counterparty
func (r *GormCounterpartyRepository) Save(ctx context.Context, c *partner.Counterparty) error {
	model := &models.CounterpartyModel{}
	if err := model.FromDomain(c); err != nil {
		return dbErr("encode counterparty contacts", err)
	}
	return dbErr("save counterparty", r.db.WithContext(ctx).Save(model).Error)
}

// Delete removes a counterparty
func (r *GormCounterpartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbErr("delete counterparty", r.db.WithContext(ctx).Delete(&models.CounterpartyModel{}, "id = ?", id).Error)
}

// CountReferences counts contracts, realizations and payments of the counterparty
func (r *GormCounterpartyRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var total int64
	for _, m := range []any{&models.ContractModel{}, &models.RealizationModel{}, &models.PaymentModel{}} {
		var n int64
		if err := r.db.WithContext(ctx).Model(m).Where("counterparty_id = ?", id).Count(&n).Error; err != nil {
			return 0, dbErr("count counterparty references", err)
		}
		total += n
	}
	return total, nil
}

// Ensure GormCounterpartyRepository implements CounterpartyRepository
var _ partner.CounterpartyRepository = (*GormCounterpartyRepository)(nil)
