package billing

import (
	"context"
	"time"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/infrastructure/logger"
	"github.com/adspace/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Trigger names who started a generation run
type Trigger string

const (
	TriggerAPI       Trigger = "api"
	TriggerScheduler Trigger = "scheduler"
	TriggerCLI       Trigger = "cli"
)

// GenerationService creates the monthly realizations of active contracts
type GenerationService struct {
	txScope TransactionScope
	lock    PeriodLock
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

// NewGenerationService creates a new GenerationService.
// A nil lock disables per-period serialisation.
func NewGenerationService(txScope TransactionScope, lock PeriodLock, log *zap.Logger) *GenerationService {
	if lock == nil {
		lock = noopPeriodLock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GenerationService{
		txScope: txScope,
		lock:    lock,
		logger:  log,
	}
}

// SetMetrics enables business metrics recording
func (s *GenerationService) SetMetrics(m *telemetry.BusinessMetrics) {
	s.metrics = m
}

// GenerateForMonth parses "YYYY-MM" and generates that period
func (s *GenerationService) GenerateForMonth(ctx context.Context, month string, trigger Trigger) (*GenerateResult, error) {
	period, err := billing.ParsePeriod(month)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, period, trigger)
}

// Generate creates one AUTO realization per MONTHLY specification service that is
// active in the period and not yet realized for it. The whole batch is written in one
// transaction; running it again for the same period creates nothing.
func (s *GenerationService) Generate(ctx context.Context, period billing.Period, trigger Trigger) (*GenerateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "realization", "generate")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPeriod, period.String(),
		"trigger", string(trigger),
	)
	log := logger.WithLogger(ctx, s.logger).Zap()

	release, err := s.lock.Acquire(ctx, period)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer release()

	began := time.Now()
	start, end := period.Start(), period.End()
	var created []*billing.Realization
	var scanned int

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		created = nil
		contracts, err := repos.Contracts().FindActiveForPeriod(ctx, start, end)
		if err != nil {
			return err
		}
		scanned = len(contracts)

		done, err := repos.Realizations().GeneratedServiceIDs(ctx, period)
		if err != nil {
			return err
		}

		for i := range contracts {
			for _, line := range contracts[i].MonthlyBillableLines(start, end) {
				if _, ok := done[line.Service.ID]; ok {
					continue
				}
				r, err := billing.NewAutoRealization(period, billing.AutoParams{
					CounterpartyID:         line.Contract.CounterpartyID,
					ManagerID:              line.Contract.ManagerID,
					ContractID:             line.Contract.ID,
					SpecificationID:        line.Specification.ID,
					SpecificationServiceID: line.Service.ID,
					Description:            line.Service.Description,
					Amount:                 line.Service.Amount,
					ServiceType:            line.Service.ServiceType,
					PropertyObjectID:       line.Service.PropertyObjectID,
				})
				if err != nil {
					return err
				}
				done[line.Service.ID] = struct{}{}
				created = append(created, r)
			}
		}

		if len(created) == 0 {
			return nil
		}
		return repos.Realizations().CreateBatch(ctx, created)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("Realization generation failed",
			zap.String("period", period.String()),
			zap.String("trigger", string(trigger)),
			zap.Error(err),
		)
		return nil, err
	}

	elapsed := time.Since(began)
	s.metrics.RecordGeneration(ctx, period.String(), string(trigger), len(created), elapsed)
	telemetry.SetAttribute(span, telemetry.SpanAttrGeneratedCount, len(created))
	log.Info("Realizations generated",
		zap.String("period", period.String()),
		zap.String("trigger", string(trigger)),
		zap.Int("contracts_scanned", scanned),
		zap.Int("generated_count", len(created)),
		zap.Duration("elapsed", elapsed),
	)

	result := &GenerateResult{
		Period:         period.String(),
		GeneratedCount: len(created),
		Realizations:   make([]RealizationResponse, 0, len(created)),
	}
	for _, r := range created {
		result.Realizations = append(result.Realizations, ToRealizationResponse(r))
	}
	return result, nil
}
