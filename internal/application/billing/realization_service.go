package billing

import (
	"context"
	"fmt"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/contract"
	"github.com/adspace/backoffice/internal/domain/finance"
	"github.com/adspace/backoffice/internal/domain/identity"
	"github.com/adspace/backoffice/internal/domain/partner"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/adspace/backoffice/internal/infrastructure/logger"
	"github.com/adspace/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RealizationExporter renders realization rows into a downloadable file
type RealizationExporter interface {
	ExportRealizations(period billing.Period, rows []ExportRow) (*ExportFile, error)
}

// AllocationSource lists the payment allocations made to a realization
type AllocationSource interface {
	FindAllocationsByRealization(ctx context.Context, realizationID uuid.UUID) ([]finance.PaymentAllocation, error)
}

// exportPageSize bounds each read while collecting export rows
const exportPageSize = 500

// RealizationService handles manual realization maintenance and queries
type RealizationService struct {
	txScope          TransactionScope
	realizationRepo  billing.RealizationRepository
	counterpartyRepo partner.CounterpartyRepository
	contractRepo     contract.Repository
	userRepo         identity.UserRepository
	exporter         RealizationExporter
	allocations      AllocationSource
	logger           *zap.Logger
}

// NewRealizationService creates a new RealizationService
func NewRealizationService(
	txScope TransactionScope,
	realizationRepo billing.RealizationRepository,
	counterpartyRepo partner.CounterpartyRepository,
	contractRepo contract.Repository,
	userRepo identity.UserRepository,
	log *zap.Logger,
) *RealizationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RealizationService{
		txScope:          txScope,
		realizationRepo:  realizationRepo,
		counterpartyRepo: counterpartyRepo,
		contractRepo:     contractRepo,
		userRepo:         userRepo,
		logger:           log,
	}
}

// SetExporter sets the spreadsheet renderer used by Export
func (s *RealizationService) SetExporter(e RealizationExporter) {
	s.exporter = e
}

// SetAllocationSource makes GetByID include the payments covering the realization
func (s *RealizationService) SetAllocationSource(src AllocationSource) {
	s.allocations = src
}

// GetByID retrieves a realization by ID
func (s *RealizationService) GetByID(ctx context.Context, id uuid.UUID) (*RealizationResponse, error) {
	r, err := s.realizationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, shared.NewDomainError("REALIZATION_NOT_FOUND", "Realization not found")
	}
	resp := ToRealizationResponse(r)
	if s.allocations != nil {
		allocs, err := s.allocations.FindAllocationsByRealization(ctx, id)
		if err != nil {
			return nil, err
		}
		resp.Allocations = make([]RealizationAllocationResponse, 0, len(allocs))
		for _, a := range allocs {
			resp.Allocations = append(resp.Allocations, RealizationAllocationResponse{
				PaymentID:   a.PaymentID,
				Amount:      a.Amount,
				AllocatedAt: a.AllocatedAt,
			})
		}
	}
	return &resp, nil
}

// List returns realizations matching the filter. Without an explicit order they
// come oldest first, which is the order debts are usually paid in.
func (s *RealizationService) List(ctx context.Context, filter RealizationListFilter) ([]RealizationResponse, int64, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := s.realizationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]RealizationResponse, 0, len(items))
	for i := range items {
		out = append(out, ToRealizationResponse(&items[i]))
	}
	return out, total, nil
}

func toDomainFilter(f RealizationListFilter) (billing.RealizationFilter, error) {
	df := billing.RealizationFilter{
		Filter:          shared.DefaultFilter(),
		OnlyOutstanding: f.OnlyOutstanding,
	}
	var err error
	if df.CounterpartyID, err = shared.ParseOptionalID(f.CounterpartyID); err != nil {
		return df, err
	}
	if df.ContractID, err = shared.ParseOptionalID(f.ContractID); err != nil {
		return df, err
	}
	if df.ManagerID, err = shared.ParseOptionalID(f.ManagerID); err != nil {
		return df, err
	}
	df.OrderBy, df.OrderDir = "date", "asc"
	if f.Page > 0 {
		df.Page = f.Page
	}
	if f.PageSize > 0 {
		df.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		df.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		df.OrderDir = f.OrderDir
	}
	if f.Period != "" {
		p, err := billing.ParsePeriod(f.Period)
		if err != nil {
			return df, err
		}
		df.Period = &p
	}
	if f.PaymentStatus != "" {
		st := billing.PaymentStatus(f.PaymentStatus)
		if !st.IsValid() {
			return df, shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status")
		}
		df.PaymentStatus = &st
	}
	if f.Source != "" {
		src := billing.Source(f.Source)
		if !src.IsValid() {
			return df, shared.NewDomainError("INVALID_SOURCE", "Unknown realization source")
		}
		df.Source = &src
	}
	return df, nil
}

// Create records a MANUAL or ONCE realization entered by a manager
func (s *RealizationService) Create(ctx context.Context, req CreateRealizationRequest) (*RealizationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "realization", "create")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCounterpartyID, req.CounterpartyID.String())

	date, err := shared.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	manager, err := s.userRepo.FindByID(ctx, req.ManagerID)
	if err != nil {
		return nil, err
	}
	if manager == nil || !manager.CanManage() {
		return nil, shared.NewDomainError("MANAGER_NOT_FOUND", "Manager not found or inactive")
	}

	inputs := make([]billing.ServiceInput, 0, len(req.Services))
	for _, l := range req.Services {
		inputs = append(inputs, l.toInput())
	}
	r, err := billing.NewManualRealization(billing.ManualParams{
		Date:            date,
		Source:          billing.Source(req.Source),
		CounterpartyID:  req.CounterpartyID,
		ManagerID:       req.ManagerID,
		ContractID:      req.ContractID,
		SpecificationID: req.SpecificationID,
		Services:        inputs,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		cp, err := repos.Counterparties().FindByID(ctx, req.CounterpartyID)
		if err != nil {
			return err
		}
		if cp == nil {
			return shared.NewDomainError("COUNTERPARTY_NOT_FOUND", "Counterparty not found")
		}
		if req.ContractID != nil {
			c, err := repos.Contracts().FindByID(ctx, *req.ContractID)
			if err != nil {
				return err
			}
			if err := checkContractLink(c, req.CounterpartyID, req.SpecificationID); err != nil {
				return err
			}
		}
		return repos.Realizations().Create(ctx, r)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrRealizationID, r.ID.String())
	logger.WithLogger(ctx, s.logger).Info("Manual realization created",
		zap.String("realization_id", r.ID.String()),
		zap.String("source", string(r.Source)),
		zap.String("total_sale", r.TotalSale().StringFixed(2)),
	)
	resp := ToRealizationResponse(r)
	return &resp, nil
}

func checkContractLink(c *contract.Contract, counterpartyID uuid.UUID, specificationID *uuid.UUID) error {
	if c == nil {
		return shared.NewDomainError("CONTRACT_NOT_FOUND", "Contract not found")
	}
	if c.CounterpartyID != counterpartyID {
		return shared.NewDomainError("CONTRACT_COUNTERPARTY_MISMATCH",
			fmt.Sprintf("Contract %s belongs to another counterparty", c.Number))
	}
	if specificationID != nil {
		if _, ok := c.Specification(*specificationID); !ok {
			return shared.NewDomainError("SPECIFICATION_CONTRACT_MISMATCH",
				fmt.Sprintf("Specification does not belong to contract %s", c.Number))
		}
	}
	return nil
}

// UpdateService edits one service line. The realization row is locked so that a
// concurrent payment cannot push the paid amount above the new total.
func (s *RealizationService) UpdateService(ctx context.Context, realizationID, serviceID uuid.UUID, req ServiceLineRequest) (*RealizationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "realization", "update_service")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrRealizationID, realizationID.String())

	var updated *billing.Realization
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := repos.Realizations().FindByIDsForUpdate(ctx, []uuid.UUID{realizationID})
		if err != nil {
			return err
		}
		r, ok := locked[realizationID]
		if !ok {
			return shared.NewDomainError("REALIZATION_NOT_FOUND", "Realization not found")
		}
		if err := r.CheckConsistency(); err != nil {
			return err
		}
		if err := r.UpdateService(serviceID, req.toInput()); err != nil {
			return err
		}
		updated = r
		return repos.Realizations().Save(ctx, r)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Realization service updated",
		zap.String("realization_id", realizationID.String()),
		zap.String("service_id", serviceID.String()),
		zap.String("payment_status", string(updated.PaymentStatus)),
	)
	resp := ToRealizationResponse(updated)
	return &resp, nil
}

// Delete removes a realization that has not received any money
func (s *RealizationService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "realization", "delete")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrRealizationID, id.String())

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := repos.Realizations().FindByIDsForUpdate(ctx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		r, ok := locked[id]
		if !ok {
			return shared.NewDomainError("REALIZATION_NOT_FOUND", "Realization not found")
		}
		if err := r.CanDelete(); err != nil {
			return err
		}
		return repos.Realizations().Delete(ctx, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	logger.WithLogger(ctx, s.logger).Info("Realization deleted", zap.String("realization_id", id.String()))
	return nil
}

// Export renders every realization of the period into a spreadsheet
func (s *RealizationService) Export(ctx context.Context, month string) (*ExportFile, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "realization", "export")
	defer span.End()

	if s.exporter == nil {
		return nil, shared.NewDomainError("EXPORT_UNAVAILABLE", "Export is not configured")
	}
	period, err := billing.ParsePeriod(month)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPeriod, period.String())

	filter := billing.RealizationFilter{
		Filter: shared.Filter{Page: 1, PageSize: exportPageSize, OrderBy: "date", OrderDir: "asc"},
		Period: &period,
	}
	var all []billing.Realization
	for {
		page, total, err := s.realizationRepo.FindAll(ctx, filter)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			break
		}
		filter.Page++
	}

	names := make(map[uuid.UUID]*partner.Counterparty)
	contracts := make(map[uuid.UUID]string)
	rows := make([]ExportRow, 0, len(all))
	for i := range all {
		r := &all[i]
		cp, ok := names[r.CounterpartyID]
		if !ok {
			cp, err = s.counterpartyRepo.FindByID(ctx, r.CounterpartyID)
			if err != nil {
				return nil, err
			}
			names[r.CounterpartyID] = cp
		}
		contractNumber := ""
		if r.ContractID != nil {
			number, ok := contracts[*r.ContractID]
			if !ok {
				c, err := s.contractRepo.FindByID(ctx, *r.ContractID)
				if err != nil {
					return nil, err
				}
				if c != nil {
					number = c.Number
				}
				contracts[*r.ContractID] = number
			}
			contractNumber = number
		}
		rows = append(rows, exportRows(r, cp, contractNumber)...)
	}

	file, err := s.exporter.ExportRealizations(period, rows)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	logger.WithLogger(ctx, s.logger).Info("Realizations exported",
		zap.String("period", period.String()),
		zap.Int("realizations", len(all)),
		zap.Int("rows", len(rows)),
	)
	return file, nil
}

// exportRows flattens a realization to one row per service line.
// Paid and debt amounts are reported on the first line only.
func exportRows(r *billing.Realization, cp *partner.Counterparty, contractNumber string) []ExportRow {
	name, inn := "", ""
	if cp != nil {
		name, inn = cp.DisplayName(), cp.INN
	}
	rows := make([]ExportRow, 0, len(r.Services))
	for i, svc := range r.Services {
		row := ExportRow{
			Date:          r.Date,
			Counterparty:  name,
			INN:           inn,
			Contract:      contractNumber,
			Description:   svc.Description,
			ServiceType:   svc.ServiceType.Label(),
			SaleAmount:    svc.SaleAmount,
			ExpenseAmount: svc.ExpenseAmount,
			Status:        string(r.PaymentStatus),
		}
		if i == 0 {
			row.PaidAmount = r.PaidAmount
			row.DebtAmount = r.DebtAmount()
		}
		rows = append(rows, row)
	}
	return rows
}
