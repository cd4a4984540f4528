package persistence

import (
	"context"
	"errors"

	"github.com/adspace/backoffice/internal/domain/finance"
	"github.com/adspace/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func preloadAllocations(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds a payment with its allocations; returns nil when absent
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Preload("Allocations", preloadAllocations).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbErr("find payment", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter finance.PaymentFilter) ([]finance.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{})
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.PaymentType != nil {
		query = query.Where("payment_type = ?", *filter.PaymentType)
	}
	if filter.DateFrom != nil {
		query = query.Where("payment_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("payment_date <= ?", *filter.DateTo)
	}
	if filter.HasAdvance != nil {
		if *filter.HasAdvance {
			query = query.Where("unallocated_amount > 0")
		} else {
			query = query.Where("unallocated_amount = 0")
		}
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, dbErr("count payments", err)
	}
	var rows []models.PaymentModel
	if err := paymentSort.page(query, filter.Filter).
		Preload("Allocations", preloadAllocations).
		Find(&rows).Error; err != nil {
		return nil, 0, dbErr("list payments", err)
	}
	out := make([]finance.Payment, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Save upserts the payment row and replaces its allocation links
func (r *GormPaymentRepository) Save(ctx context.Context, p *finance.Payment) error {
	model := models.PaymentModelFromDomain(p)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("payment_id = ?", p.ID).Delete(&models.PaymentAllocationModel{}).Error; err != nil {
			return err
		}
		if len(model.Allocations) == 0 {
			return nil
		}
		return tx.Create(&model.Allocations).Error
	})
	return dbErr("save payment", err)
}

// Delete removes the payment and its allocation links
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_id = ?", id).Delete(&models.PaymentAllocationModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PaymentModel{}, "id = ?", id).Error
	})
	return dbErr("delete payment", err)
}

// FindAllocationsByRealization lists allocations made to a realization, oldest first
func (r *GormPaymentRepository) FindAllocationsByRealization(ctx context.Context, realizationID uuid.UUID) ([]finance.PaymentAllocation, error) {
	var rows []models.PaymentAllocationModel
	if err := r.db.WithContext(ctx).
		Where("realization_id = ?", realizationID).
		Order("allocated_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, dbErr("list allocations", err)
	}
	out := make([]finance.PaymentAllocation, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
