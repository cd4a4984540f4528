package contract

import (
	"context"
	"fmt"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/contract"
	"github.com/adspace/backoffice/internal/domain/identity"
	"github.com/adspace/backoffice/internal/domain/partner"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/adspace/backoffice/internal/infrastructure/logger"
	"github.com/adspace/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContractService handles contracts, their specifications and service lines
type ContractService struct {
	repo             contract.Repository
	counterpartyRepo partner.CounterpartyRepository
	userRepo         identity.UserRepository
	objectRepo       catalog.PropertyObjectRepository
	logger           *zap.Logger
}

// NewContractService creates a new ContractService
func NewContractService(
	repo contract.Repository,
	counterpartyRepo partner.CounterpartyRepository,
	userRepo identity.UserRepository,
	objectRepo catalog.PropertyObjectRepository,
	log *zap.Logger,
) *ContractService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContractService{
		repo:             repo,
		counterpartyRepo: counterpartyRepo,
		userRepo:         userRepo,
		objectRepo:       objectRepo,
		logger:           log,
	}
}

// Create creates a contract for an existing counterparty managed by an active user
func (s *ContractService) Create(ctx context.Context, req CreateContractRequest) (*ContractResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "create")
	defer span.End()

	date, err := shared.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	appEnd, err := optionalDate(req.AppEndDate)
	if err != nil {
		return nil, err
	}

	c, err := contract.NewContract(req.Number, date, req.CounterpartyID, req.ManagerID, catalog.BusinessCategory(req.Category))
	if err != nil {
		return nil, err
	}
	if err := c.SetAppEndDate(appEnd); err != nil {
		return nil, err
	}
	c.SetPavilionNumber(req.PavilionNumber)

	cp, err := s.counterpartyRepo.FindByID(ctx, req.CounterpartyID)
	if err != nil {
		return nil, err
	}
	if cp == nil {
		return nil, shared.NewDomainError("COUNTERPARTY_NOT_FOUND", "Counterparty not found")
	}
	if err := s.checkManager(ctx, req.ManagerID); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByNumber(ctx, c.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("CONTRACT_NUMBER_EXISTS",
			fmt.Sprintf("Contract %s already exists", c.Number))
	}

	if err := s.repo.Save(ctx, c); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrContractID, c.ID.String(),
		telemetry.SpanAttrCounterpartyID, c.CounterpartyID.String(),
	)
	logger.WithLogger(ctx, s.logger).Info("Contract created",
		zap.String("contract_id", c.ID.String()),
		zap.String("number", c.Number),
		zap.String("counterparty_id", c.CounterpartyID.String()),
	)
	resp := ToContractResponse(c)
	return &resp, nil
}

// GetByID retrieves a contract with its specifications
func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToContractResponse(c)
	return &resp, nil
}

// List returns contracts matching the filter
func (s *ContractService) List(ctx context.Context, filter ContractListFilter) ([]ContractResponse, int64, error) {
	df := contract.Filter{Filter: shared.DefaultFilter()}
	var err error
	if df.CounterpartyID, err = shared.ParseOptionalID(filter.CounterpartyID); err != nil {
		return nil, 0, err
	}
	if df.ManagerID, err = shared.ParseOptionalID(filter.ManagerID); err != nil {
		return nil, 0, err
	}
	df.Search = filter.Search
	df.OrderBy = "date"
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
	if filter.Status != "" {
		st := contract.Status(filter.Status)
		if !st.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Contract status must be ACTIVE or ARCHIVE")
		}
		df.Status = &st
	}

	items, total, err := s.repo.FindAll(ctx, df)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ContractResponse, 0, len(items))
	for i := range items {
		out = append(out, ToContractResponse(&items[i]))
	}
	return out, total, nil
}

// Archive stops monthly generation for the contract
func (s *ContractService) Archive(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	return s.changeStatus(ctx, id, (*contract.Contract).Archive)
}

// Activate resumes monthly generation for the contract
func (s *ContractService) Activate(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	return s.changeStatus(ctx, id, (*contract.Contract).Activate)
}

func (s *ContractService) changeStatus(ctx context.Context, id uuid.UUID, apply func(*contract.Contract) error) (*ContractResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(c); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	logger.WithLogger(ctx, s.logger).Info("Contract status changed",
		zap.String("contract_id", c.ID.String()),
		zap.String("status", string(c.Status)),
	)
	resp := ToContractResponse(c)
	return &resp, nil
}

// AddSpecification adds an addendum to the contract
func (s *ContractService) AddSpecification(ctx context.Context, contractID uuid.UUID, req SpecificationRequest) (*SpecificationResponse, error) {
	c, err := s.find(ctx, contractID)
	if err != nil {
		return nil, err
	}
	start, err := shared.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := shared.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	spec, err := c.AddSpecification(req.Number, start, end, req.Description)
	if err != nil {
		return nil, err
	}
	resp := toSpecificationResponse(spec)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddService adds a service line to a specification of the contract
func (s *ContractService) AddService(ctx context.Context, contractID, specificationID uuid.UUID, req ServiceRequest) (*ServiceResponse, error) {
	c, err := s.find(ctx, contractID)
	if err != nil {
		return nil, err
	}
	spec, ok := c.Specification(specificationID)
	if !ok {
		return nil, shared.NewDomainError("SPECIFICATION_NOT_FOUND", "Specification not found in contract")
	}
	line, err := req.toLine()
	if err != nil {
		return nil, err
	}
	if line.PropertyObjectID != nil {
		obj, err := s.objectRepo.FindByID(ctx, *line.PropertyObjectID)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, shared.NewDomainError("PROPERTY_OBJECT_NOT_FOUND", "Property object not found")
		}
	}
	svc, err := spec.AddService(line)
	if err != nil {
		return nil, err
	}
	resp := toServiceResponse(svc)
	c.Touch()
	c.IncrementVersion()
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a contract that has no realizations or payments
func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return shared.NewDomainError("CONTRACT_IN_USE",
			fmt.Sprintf("Contract is referenced by %d documents", refs))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithLogger(ctx, s.logger).Info("Contract deleted", zap.String("contract_id", id.String()))
	return nil
}

func (s *ContractService) checkManager(ctx context.Context, id uuid.UUID) error {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil || !u.CanManage() {
		return shared.NewDomainError("MANAGER_NOT_FOUND", "Manager not found or inactive")
	}
	return nil
}

func (s *ContractService) find(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewDomainError("CONTRACT_NOT_FOUND", "Contract not found")
	}
	return c, nil
}
