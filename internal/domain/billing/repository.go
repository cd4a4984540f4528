package billing

import (
	"context"

	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// RealizationFilter narrows realization listings
type RealizationFilter struct {
	shared.Filter
	CounterpartyID  *uuid.UUID
	ContractID      *uuid.UUID
	ManagerID       *uuid.UUID
	Period          *Period
	PaymentStatus   *PaymentStatus
	Source          *Source
	OnlyOutstanding bool // excludes PAID realizations
}

// RealizationRepository persists realizations with their service lines
type RealizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Realization, error)
	// FindByIDsForUpdate loads and row-locks the given realizations; missing IDs are absent from the map
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Realization, error)
	FindAll(ctx context.Context, filter RealizationFilter) ([]Realization, int64, error)
	// GeneratedServiceIDs returns the specification service IDs already realized for the period
	GeneratedServiceIDs(ctx context.Context, period Period) (map[uuid.UUID]struct{}, error)
	Create(ctx context.Context, r *Realization) error
	CreateBatch(ctx context.Context, rs []*Realization) error
	// UpdatePayment persists PaidAmount and PaymentStatus
	UpdatePayment(ctx context.Context, r *Realization) error
	Save(ctx context.Context, r *Realization) error
	Delete(ctx context.Context, id uuid.UUID) error
}
