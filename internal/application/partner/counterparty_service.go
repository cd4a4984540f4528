package partner

import (
	"context"
	"fmt"

	"github.com/adspace/backoffice/internal/domain/partner"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/adspace/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CounterpartyService handles counterparty-related business operations
type CounterpartyService struct {
	repo   partner.CounterpartyRepository
	logger *zap.Logger
}

// NewCounterpartyService creates a new CounterpartyService
func NewCounterpartyService(repo partner.CounterpartyRepository, log *zap.Logger) *CounterpartyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CounterpartyService{repo: repo, logger: log}
}

// Create creates a new counterparty. The INN, when given, must be unique.
func (s *CounterpartyService) Create(ctx context.Context, req CounterpartyRequest) (*CounterpartyResponse, error) {
	cp, err := partner.NewCounterparty(partner.CounterpartyType(req.Type), req.FullName, req.BrandName, req.INN)
	if err != nil {
		return nil, err
	}
	if err := cp.SetContacts(req.contacts()); err != nil {
		return nil, err
	}
	cp.SetNotes(req.Notes)

	if err := s.ensureUniqueINN(ctx, cp.INN, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cp); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Counterparty created",
		zap.String("counterparty_id", cp.ID.String()),
		zap.String("type", string(cp.Type)),
	)
	resp := ToCounterpartyResponse(cp)
	return &resp, nil
}

// GetByID retrieves a counterparty by ID
func (s *CounterpartyService) GetByID(ctx context.Context, id uuid.UUID) (*CounterpartyResponse, error) {
	cp, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCounterpartyResponse(cp)
	return &resp, nil
}

// List returns counterparties matching the filter
func (s *CounterpartyService) List(ctx context.Context, filter CounterpartyListFilter) ([]CounterpartyResponse, int64, error) {
	df := partner.CounterpartyFilter{Filter: shared.DefaultFilter()}
	df.Search = filter.Search
	if filter.Page > 0 {
		df.Page = filter.Page
	}
	if filter.PageSize > 0 {
		df.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		df.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		df.OrderDir = filter.OrderDir
	}
	if filter.Type != "" {
		t := partner.CounterpartyType(filter.Type)
		if !t.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_COUNTERPARTY_TYPE", "Counterparty type must be LLC or IP")
		}
		df.Type = &t
	}

	items, total, err := s.repo.FindAll(ctx, df)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CounterpartyResponse, 0, len(items))
	for i := range items {
		out = append(out, ToCounterpartyResponse(&items[i]))
	}
	return out, total, nil
}

// Update changes the requisites, contacts and notes of a counterparty
func (s *CounterpartyService) Update(ctx context.Context, id uuid.UUID, req CounterpartyRequest) (*CounterpartyResponse, error) {
	cp, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cp.Update(partner.CounterpartyType(req.Type), req.FullName, req.BrandName, req.INN); err != nil {
		return nil, err
	}
	if err := cp.SetContacts(req.contacts()); err != nil {
		return nil, err
	}
	cp.SetNotes(req.Notes)

	if err := s.ensureUniqueINN(ctx, cp.INN, cp.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cp); err != nil {
		return nil, err
	}
	resp := ToCounterpartyResponse(cp)
	return &resp, nil
}

// Delete removes a counterparty that no contract, realization or payment references
func (s *CounterpartyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return shared.NewDomainError("COUNTERPARTY_IN_USE",
			fmt.Sprintf("Counterparty is referenced by %d documents", refs))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithLogger(ctx, s.logger).Info("Counterparty deleted", zap.String("counterparty_id", id.String()))
	return nil
}

func (s *CounterpartyService) find(ctx context.Context, id uuid.UUID) (*partner.Counterparty, error) {
	cp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cp == nil {
		return nil, shared.NewDomainError("COUNTERPARTY_NOT_FOUND", "Counterparty not found")
	}
	return cp, nil
}

func (s *CounterpartyService) ensureUniqueINN(ctx context.Context, inn string, self uuid.UUID) error {
	if inn == "" {
		return nil
	}
	existing, err := s.repo.FindByINN(ctx, inn)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return shared.NewDomainError("INN_ALREADY_EXISTS", "A counterparty with this INN already exists")
	}
	return nil
}
