package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/finance"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/adspace/backoffice/internal/infrastructure/logger"
	"github.com/adspace/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PaymentService records payments and allocates them to realizations
type PaymentService struct {
	txScope     TransactionScope
	paymentRepo finance.PaymentRepository
	allocator   *finance.Allocator
	metrics     *telemetry.BusinessMetrics
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService with sequential allocation
func NewPaymentService(txScope TransactionScope, paymentRepo finance.PaymentRepository, log *zap.Logger) *PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{
		txScope:     txScope,
		paymentRepo: paymentRepo,
		allocator:   finance.NewAllocator(nil),
		logger:      log,
	}
}

// SetMetrics enables business metrics recording
func (s *PaymentService) SetMetrics(m *telemetry.BusinessMetrics) {
	s.metrics = m
}

// GetByID retrieves a payment with its allocations
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// List returns payments matching the filter, newest first by default
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	df := finance.PaymentFilter{
		Filter:     shared.DefaultFilter(),
		HasAdvance: filter.HasAdvance,
	}
	var err error
	if df.CounterpartyID, err = shared.ParseOptionalID(filter.CounterpartyID); err != nil {
		return nil, 0, err
	}
	if df.ContractID, err = shared.ParseOptionalID(filter.ContractID); err != nil {
		return nil, 0, err
	}
	df.OrderBy = "payment_date"
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
	if filter.PaymentType != "" {
		pt := finance.PaymentType(filter.PaymentType)
		if !pt.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Payment type must be CASH or NON_CASH")
		}
		df.PaymentType = &pt
	}
	if filter.DateFrom != "" {
		d, err := shared.ParseDate(filter.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		df.DateFrom = &d
	}
	if filter.DateTo != "" {
		d, err := shared.ParseDate(filter.DateTo)
		if err != nil {
			return nil, 0, err
		}
		df.DateTo = &d
	}

	items, total, err := s.paymentRepo.FindAll(ctx, df)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PaymentResponse, 0, len(items))
	for i := range items {
		out = append(out, ToPaymentResponse(&items[i]))
	}
	return out, total, nil
}

// Create records a payment and allocates it over the requested realizations in
// the given order. Whatever is left stays on the payment as an advance.
func (s *PaymentService) Create(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCounterpartyID, req.CounterpartyID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrPaymentType, req.PaymentType,
		telemetry.SpanAttrCandidates, len(req.RealizationIDs),
	)

	details, err := req.toDetails()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := checkDuplicates(req.RealizationIDs); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	p, err := finance.NewPayment(details)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var touched []*billing.Realization
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := checkParties(ctx, repos, details); err != nil {
			return err
		}
		locked, err := repos.Realizations().FindByIDsForUpdate(ctx, req.RealizationIDs)
		if err != nil {
			return err
		}
		worklist, err := orderedWorklist(req.RealizationIDs, locked)
		if err != nil {
			return err
		}
		touched, err = s.allocator.Allocate(p, worklist)
		if err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, p); err != nil {
			return err
		}
		return updateRealizations(ctx, repos, touched)
	})
	if err != nil {
		s.observeFailure(ctx, span, "payment.create", err)
		return nil, err
	}

	return s.complete(ctx, span, telemetry.PaymentOperationCreate, p, touched), nil
}

// Update replaces a payment: its allocations are reversed, the new details applied
// and the new worklist allocated again, all in one transaction.
func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, req PaymentRequest) (*PaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "update")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPaymentID, id.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrCandidates, len(req.RealizationIDs),
	)

	details, err := req.toDetails()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := checkDuplicates(req.RealizationIDs); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var p *finance.Payment
	var touched []*billing.Realization
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		p, err = repos.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
		}
		if err := p.CheckConservation(); err != nil {
			return err
		}
		if err := checkParties(ctx, repos, details); err != nil {
			return err
		}

		released := p.ReleaseAllocations()
		ids := make([]uuid.UUID, 0, len(released)+len(req.RealizationIDs))
		for _, a := range released {
			ids = append(ids, a.RealizationID)
		}
		ids = append(ids, req.RealizationIDs...)
		locked, err := repos.Realizations().FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}

		reversed, err := s.allocator.Reverse(released, locked)
		if err != nil {
			return err
		}
		if err := p.Reset(details); err != nil {
			return err
		}
		worklist, err := orderedWorklist(req.RealizationIDs, locked)
		if err != nil {
			return err
		}
		allocated, err := s.allocator.Allocate(p, worklist)
		if err != nil {
			return err
		}

		if err := repos.Payments().Save(ctx, p); err != nil {
			return err
		}
		touched = mergeTouched(reversed, allocated)
		return updateRealizations(ctx, repos, touched)
	})
	if err != nil {
		s.observeFailure(ctx, span, "payment.update", err)
		return nil, err
	}

	return s.complete(ctx, span, telemetry.PaymentOperationUpdate, p, touched), nil
}

// Delete removes a payment after taking back exactly the amounts it allocated
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "delete")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentID, id.String())

	var p *finance.Payment
	var reversed []*billing.Realization
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		p, err = repos.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
		}

		if len(p.Allocations) > 0 {
			ids := make([]uuid.UUID, 0, len(p.Allocations))
			for _, a := range p.Allocations {
				ids = append(ids, a.RealizationID)
			}
			locked, err := repos.Realizations().FindByIDsForUpdate(ctx, ids)
			if err != nil {
				return err
			}
			reversed, err = s.allocator.Reverse(p.Allocations, locked)
			if err != nil {
				return err
			}
			if err := updateRealizations(ctx, repos, reversed); err != nil {
				return err
			}
		}
		return repos.Payments().Delete(ctx, id)
	})
	if err != nil {
		s.observeFailure(ctx, span, "payment.delete", err)
		return nil, err
	}

	total := finance.SumAllocations(p.Allocations)
	s.metrics.RecordPayment(ctx, telemetry.PaymentOperationDelete, string(p.PaymentType), total, p.UnallocatedAmount)
	logger.WithLogger(ctx, s.logger).Info("Payment deleted",
		zap.String("payment_id", id.String()),
		zap.String("reversed", total.StringFixed(2)),
		zap.Int("realizations", len(reversed)),
	)
	return &DeleteResult{
		PaymentID:    id,
		Reversed:     total,
		Realizations: toRealizationStates(reversed),
	}, nil
}

func (s *PaymentService) complete(ctx context.Context, span trace.Span, op telemetry.PaymentOperation, p *finance.Payment, touched []*billing.Realization) *PaymentResult {
	allocated := p.AllocatedAmount()
	s.metrics.RecordPayment(ctx, op, string(p.PaymentType), allocated, p.UnallocatedAmount)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPaymentID, p.ID.String(),
		telemetry.SpanAttrAllocated, allocated.StringFixed(2),
		telemetry.SpanAttrAdvance, p.UnallocatedAmount.StringFixed(2),
	)
	logger.WithLogger(ctx, s.logger).Info("Payment allocated",
		zap.String("operation", string(op)),
		zap.String("payment_id", p.ID.String()),
		zap.String("counterparty_id", p.CounterpartyID.String()),
		zap.String("amount", p.InitialAmount.StringFixed(2)),
		zap.String("allocated", allocated.StringFixed(2)),
		zap.String("advance", p.UnallocatedAmount.StringFixed(2)),
		zap.Int("allocations", len(p.Allocations)),
	)
	return &PaymentResult{
		Payment:      ToPaymentResponse(p),
		Allocated:    allocated,
		Advance:      p.UnallocatedAmount,
		Realizations: toRealizationStates(touched),
	}
}

// observeFailure records the error on the span; consistency faults are also
// counted and logged at error level since they point at corrupted data.
func (s *PaymentService) observeFailure(ctx context.Context, span trace.Span, operation string, err error) {
	telemetry.RecordError(span, err)
	var de *shared.DomainError
	if errors.As(err, &de) && de.Kind == shared.KindConsistency {
		s.metrics.RecordConsistencyFault(ctx, operation, de.Code)
		logger.WithLogger(ctx, s.logger).Error("Payment operation aborted on inconsistent data",
			zap.String("operation", operation),
			zap.String("code", de.Code),
			zap.Error(err),
		)
	}
}

func (r PaymentRequest) toDetails() (finance.PaymentDetails, error) {
	date, err := shared.ParseDate(r.PaymentDate)
	if err != nil {
		return finance.PaymentDetails{}, err
	}
	return finance.PaymentDetails{
		PaymentDate:    date,
		Amount:         r.Amount,
		PaymentType:    finance.PaymentType(r.PaymentType),
		CounterpartyID: r.CounterpartyID,
		ContractID:     r.ContractID,
		Comment:        r.Comment,
	}, nil
}

func checkDuplicates(ids []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return shared.NewDomainError("DUPLICATE_REALIZATION",
				fmt.Sprintf("Realization %s is listed more than once", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

func checkParties(ctx context.Context, repos TransactionalRepositories, d finance.PaymentDetails) error {
	cp, err := repos.Counterparties().FindByID(ctx, d.CounterpartyID)
	if err != nil {
		return err
	}
	if cp == nil {
		return shared.NewDomainError("COUNTERPARTY_NOT_FOUND", "Counterparty not found")
	}
	if d.ContractID == nil {
		return nil
	}
	c, err := repos.Contracts().FindByID(ctx, *d.ContractID)
	if err != nil {
		return err
	}
	if c == nil {
		return shared.NewDomainError("CONTRACT_NOT_FOUND", "Contract not found")
	}
	if c.CounterpartyID != d.CounterpartyID {
		return shared.NewDomainError("CONTRACT_COUNTERPARTY_MISMATCH",
			fmt.Sprintf("Contract %s belongs to another counterparty", c.Number))
	}
	return nil
}

// orderedWorklist returns the locked realizations in caller order
func orderedWorklist(ids []uuid.UUID, locked map[uuid.UUID]*billing.Realization) ([]*billing.Realization, error) {
	worklist := make([]*billing.Realization, 0, len(ids))
	for _, id := range ids {
		r, ok := locked[id]
		if !ok {
			return nil, shared.NewDomainError("REALIZATION_NOT_FOUND",
				fmt.Sprintf("Realization %s not found", id))
		}
		worklist = append(worklist, r)
	}
	return worklist, nil
}

func mergeTouched(groups ...[]*billing.Realization) []*billing.Realization {
	seen := make(map[uuid.UUID]bool)
	var out []*billing.Realization
	for _, g := range groups {
		for _, r := range g {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			out = append(out, r)
		}
	}
	return out
}

func updateRealizations(ctx context.Context, repos TransactionalRepositories, rs []*billing.Realization) error {
	for _, r := range rs {
		if err := repos.Realizations().UpdatePayment(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
