package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/adspace/backoffice/internal/domain/contract"
	"github.com/adspace/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContractRepository implements contract.Repository using GORM.
// A contract is loaded and saved together with its specifications and service lines.
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

func preloadSpecifications(db *gorm.DB) *gorm.DB {
	return db.Order("start_date ASC, number ASC")
}

func preloadSpecificationServices(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (r *GormContractRepository) withTree(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Specifications", preloadSpecifications).
		Preload("Specifications.Services", preloadSpecificationServices)
}

// FindByID finds a contract by ID; returns nil when absent
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	var model models.ContractModel
	if err := r.withTree(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbErr("find contract", err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a contract by its number
func (r *GormContractRepository) FindByNumber(ctx context.Context, number string) (*contract.Contract, error) {
	var model models.ContractModel
	if err := r.withTree(ctx).Where("number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbErr("find contract by number", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists contracts matching the filter
func (r *GormContractRepository) FindAll(ctx context.Context, filter contract.Filter) ([]contract.Contract, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContractModel{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(number) LIKE ? OR LOWER(pavilion_number) LIKE ?", p, p)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.ManagerID != nil {
		query = query.Where("manager_id = ?", *filter.ManagerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, dbErr("count contracts", err)
	}
	var rows []models.ContractModel
	err := contractSort.page(query, filter.Filter).
		Preload("Specifications", preloadSpecifications).
		Preload("Specifications.Services", preloadSpecificationServices).
		Find(&rows).Error
	if err != nil {
		return nil, 0, dbErr("list contracts", err)
	}
	out := make([]contract.Contract, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// FindActiveForPeriod loads ACTIVE contracts with the specifications overlapping [start, end].
// Contracts come back ordered by number so that generation output is stable.
func (r *GormContractRepository) FindActiveForPeriod(ctx context.Context, start, end time.Time) ([]contract.Contract, error) {
	var rows []models.ContractModel
	err := r.db.WithContext(ctx).
		Where("status = ?", contract.StatusActive).
		Where("EXISTS (SELECT 1 FROM specifications s WHERE s.contract_id = contracts.id AND s.start_date <= ? AND s.end_date >= ?)", end, start).
		Preload("Specifications", func(db *gorm.DB) *gorm.DB {
			return preloadSpecifications(db.Where("start_date <= ? AND end_date >= ?", end, start))
		}).
		Preload("Specifications.Services", preloadSpecificationServices).
		Order("number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, dbErr("load active contracts", err)
	}
	out := make([]contract.Contract, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Save upserts the contract row, its specifications and their service lines.
// Specifications and services are never removed through the aggregate, so rows are only added or updated.
func (r *GormContractRepository) Save(ctx context.Context, c *contract.Contract) error {
	model := models.ContractModelFromDomain(c)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		for i := range model.Specifications {
			spec := &model.Specifications[i]
			if err := tx.Omit(clause.Associations).Save(spec).Error; err != nil {
				return err
			}
			for j := range spec.Services {
				if err := tx.Save(&spec.Services[j]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	return dbErr("save contract", err)
}

// Delete removes a contract with its specifications and service lines
func (r *GormContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		specIDs := tx.Model(&models.SpecificationModel{}).Select("id").Where("contract_id = ?", id)
		if err := tx.Where("specification_id IN (?)", specIDs).Delete(&models.SpecificationServiceModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contract_id = ?", id).Delete(&models.SpecificationModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ContractModel{}, "id = ?", id).Error
	})
	return dbErr("delete contract", err)
}

// CountReferences counts realizations and payments that point at the contract
func (r *GormContractRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var total int64
	for _, m := range []any{&models.RealizationModel{}, &models.PaymentModel{}} {
		var n int64
		if err := r.db.WithContext(ctx).Model(m).Where("contract_id = ?", id).Count(&n).Error; err != nil {
			return 0, dbErr("count contract references", err)
		}
		total += n
	}
	return total, nil
}

// Ensure GormContractRepository implements contract.Repository
var _ contract.Repository = (*GormContractRepository)(nil)
