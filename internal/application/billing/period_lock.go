package billing

import (
	"context"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/shared"
)

// ErrGenerationInProgress is returned when another run holds the lock of the same period
var ErrGenerationInProgress = shared.NewDomainError("GENERATION_IN_PROGRESS",
	"Realization generation for this period is already running")

// PeriodLock serialises generation runs per period across the process (or the cluster).
// Acquire returns ErrGenerationInProgress when the period is busy; the returned
// release func must be called once the run is over.
type PeriodLock interface {
	Acquire(ctx context.Context, period billing.Period) (release func(), err error)
}

// noopPeriodLock never blocks; used when no lock is configured
type noopPeriodLock struct{}

func (noopPeriodLock) Acquire(context.Context, billing.Period) (func(), error) {
	return func() {}, nil
}
