package persistence

import (
	"context"
	"errors"
	"sort"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/adspace/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// createBatchSize bounds the rows per INSERT during generation
const createBatchSize = 100

// GormRealizationRepository implements RealizationRepository using GORM
type GormRealizationRepository struct {
	db *gorm.DB
}

// NewGormRealizationRepository creates a new GormRealizationRepository
func NewGormRealizationRepository(db *gorm.DB) *GormRealizationRepository {
	return &GormRealizationRepository{db: db}
}

func preloadRealizationServices(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds a realization with its service lines; returns nil when absent
func (r *GormRealizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Realization, error) {
	var model models.RealizationModel
	if err := r.db.WithContext(ctx).
		Preload("Services", preloadRealizationServices).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbErr("find realization", err)
	}
	return model.ToDomain(), nil
}

// FindByIDsForUpdate loads the realizations and takes row locks on them.
// Rows are locked in id order so that concurrent payments cannot deadlock.
func (r *GormRealizationRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*billing.Realization, error) {
	out := make(map[uuid.UUID]*billing.Realization, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].String() < unique[j].String() })

	var rows []models.RealizationModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id IN ?", unique).
		Order("id ASC").
		Preload("Services", preloadRealizationServices).
		Find(&rows).Error; err != nil {
		return nil, dbErr("lock realizations", err)
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

// FindAll lists realizations matching the filter
func (r *GormRealizationRepository) FindAll(ctx context.Context, filter billing.RealizationFilter) ([]billing.Realization, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RealizationModel{})
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.ManagerID != nil {
		query = query.Where("manager_id = ?", *filter.ManagerID)
	}
	if filter.Period != nil {
		query = query.Where("year = ? AND month = ?", filter.Period.Year, filter.Period.Month)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.OnlyOutstanding {
		query = query.Where("payment_status <> ?", billing.PaymentStatusPaid)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, dbErr("count realizations", err)
	}
	var rows []models.RealizationModel
	if err := realizationSort.page(query, filter.Filter).
		Preload("Services", preloadRealizationServices).
		Find(&rows).Error; err != nil {
		return nil, 0, dbErr("list realizations", err)
	}
	out := make([]billing.Realization, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// GeneratedServiceIDs returns the specification service IDs already realized for the period
func (r *GormRealizationRepository) GeneratedServiceIDs(ctx context.Context, period billing.Period) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.RealizationModel{}).
		Where("year = ? AND month = ? AND specification_service_id IS NOT NULL", period.Year, period.Month).
		Pluck("specification_service_id", &ids).Error; err != nil {
		return nil, dbErr("load generated services", err)
	}
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// Create inserts a realization with its service lines
func (r *GormRealizationRepository) Create(ctx context.Context, rz *billing.Realization) error {
	return dbErr("create realization", r.db.WithContext(ctx).Create(models.RealizationModelFromDomain(rz)).Error)
}

// CreateBatch inserts generated realizations with their service lines
func (r *GormRealizationRepository) CreateBatch(ctx context.Context, rs []*billing.Realization) error {
	if len(rs) == 0 {
		return nil
	}
	rows := make([]*models.RealizationModel, 0, len(rs))
	for _, rz := range rs {
		rows = append(rows, models.RealizationModelFromDomain(rz))
	}
	return dbErr("create realizations", r.db.WithContext(ctx).CreateInBatches(rows, createBatchSize).Error)
}

// UpdatePayment persists PaidAmount and PaymentStatus
func (r *GormRealizationRepository) UpdatePayment(ctx context.Context, rz *billing.Realization) error {
	result := r.db.WithContext(ctx).
		Model(&models.RealizationModel{}).
		Where("id = ?", rz.ID).
		Updates(map[string]any{
			"paid_amount":    rz.PaidAmount,
			"payment_status": rz.PaymentStatus,
			"version":        rz.Version,
			"updated_at":     rz.UpdatedAt,
		})
	if result.Error != nil {
		return dbErr("update realization payment", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewPersistenceError("update realization payment", gorm.ErrRecordNotFound)
	}
	return nil
}

// Save updates the realization row and upserts its service lines
func (r *GormRealizationRepository) Save(ctx context.Context, rz *billing.Realization) error {
	model := models.RealizationModelFromDomain(rz)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		for i := range model.Services {
			if err := tx.Save(&model.Services[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return dbErr("save realization", err)
}

// Delete removes a realization with its service lines
func (r *GormRealizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("realization_id = ?", id).Delete(&models.RealizationServiceModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.RealizationModel{}, "id = ?", id).Error
	})
	return dbErr("delete realization", err)
}

// Ensure GormRealizationRepository implements RealizationRepository
var _ billing.RealizationRepository = (*GormRealizationRepository)(nil)
