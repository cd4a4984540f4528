// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the back office.
// It tracks realization generation, payment allocation and consistency faults.
// A nil *BusinessMetrics is valid and records nothing.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	realizationsGenerated *Counter
	generationDuration    *Histogram
	paymentsTotal         *Counter
	allocatedKopecks      *Counter
	advanceKopecks        *Counter
	consistencyFaults     *Counter
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error
	bm.realizationsGenerated, err = NewCounter(cfg.Meter,
		"adspace_realizations_generated_total",
		"Total number of realizations created by monthly generation",
		"{realizations}",
	)
	if err != nil {
		return nil, err
	}

	bm.generationDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "adspace_generation_duration_seconds",
		Description: "Duration of a monthly generation run",
		Unit:        "s",
		Boundaries:  BatchDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	bm.paymentsTotal, err = NewCounter(cfg.Meter,
		"adspace_payment_operations_total",
		"Total number of payment create, update and delete operations",
		"{operations}",
	)
	if err != nil {
		return nil, err
	}

	bm.allocatedKopecks, err = NewCounter(cfg.Meter,
		"adspace_payment_allocated_total",
		"Total amount allocated to realizations in kopecks",
		"{kopecks}",
	)
	if err != nil {
		return nil, err
	}

	bm.advanceKopecks, err = NewCounter(cfg.Meter,
		"adspace_payment_advance_total",
		"Total amount left unallocated as advance in kopecks",
		"{kopecks}",
	)
	if err != nil {
		return nil, err
	}

	bm.consistencyFaults, err = NewCounter(cfg.Meter,
		"adspace_consistency_faults_total",
		"Number of operations aborted because stored data broke an invariant",
		"{faults}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// PaymentOperation labels payment metrics
type PaymentOperation string

const (
	PaymentOperationCreate PaymentOperation = "create"
	PaymentOperationUpdate PaymentOperation = "update"
	PaymentOperationDelete PaymentOperation = "delete"
)

// RecordGeneration records a finished generation run.
func (bm *BusinessMetrics) RecordGeneration(ctx context.Context, period, trigger string, generated int, elapsed time.Duration) {
	if bm == nil {
		return
	}
	bm.realizationsGenerated.Add(ctx, int64(generated), AttrPeriod.String(period), AttrTriggerSource.String(trigger))
	bm.generationDuration.RecordDuration(ctx, elapsed, AttrTriggerSource.String(trigger))
}

// RecordPayment records a payment operation with the allocated and advance amounts.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, op PaymentOperation, paymentType string, allocated, advance decimal.Decimal) {
	if bm == nil {
		return
	}
	bm.paymentsTotal.Inc(ctx, AttrOperation.String(string(op)), AttrPaymentType.String(paymentType))
	if op == PaymentOperationDelete {
		return
	}
	bm.allocatedKopecks.Add(ctx, toKopecks(allocated), AttrPaymentType.String(paymentType))
	bm.advanceKopecks.Add(ctx, toKopecks(advance), AttrPaymentType.String(paymentType))
}

// RecordConsistencyFault records an aborted operation.
func (bm *BusinessMetrics) RecordConsistencyFault(ctx context.Context, operation, code string) {
	if bm == nil {
		return
	}
	bm.consistencyFaults.Inc(ctx, AttrOperation.String(operation), AttrFaultCode.String(code))
	bm.logger.Warn("Consistency fault recorded",
		zap.String("operation", operation),
		zap.String("code", code),
	)
}

func toKopecks(d decimal.Decimal) int64 {
	if !d.IsPositive() {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
