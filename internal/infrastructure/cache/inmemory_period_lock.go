package cache

import (
	"context"
	"sync"

	appbilling "github.com/adspace/backoffice/internal/application/billing"
	"github.com/adspace/backoffice/internal/domain/billing"
)

// InMemoryPeriodLock serialises generation runs inside one process.
// A busy period is reported immediately instead of waiting.
type InMemoryPeriodLock struct {
	mu   sync.Mutex
	held map[billing.Period]struct{}
}

// NewInMemoryPeriodLock creates an empty lock table
func NewInMemoryPeriodLock() *InMemoryPeriodLock {
	return &InMemoryPeriodLock{held: make(map[billing.Period]struct{})}
}

// Acquire takes the period or returns ErrGenerationInProgress
func (l *InMemoryPeriodLock) Acquire(ctx context.Context, period billing.Period) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[period]; busy {
		return nil, appbilling.ErrGenerationInProgress
	}
	l.held[period] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, period)
			l.mu.Unlock()
		})
	}, nil
}

var _ appbilling.PeriodLock = (*InMemoryPeriodLock)(nil)
