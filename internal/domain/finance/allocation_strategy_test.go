package finance

import (
	"testing"

	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequentialAllocationStrategy_Allocate(t *testing.T) {
	s := NewSequentialAllocationStrategy()
	assert.Equal(t, "sequential", s.Name())
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	d := decimal.NewFromInt

	tests := []struct {
		name      string
		amount    decimal.Decimal
		targets   []AllocationTarget
		want      []AllocationResult
		remaining decimal.Decimal
	}{
		{
			name:      "caller order wins",
			amount:    d(120),
			targets:   []AllocationTarget{{a, d(100)}, {b, d(50)}},
			want:      []AllocationResult{{a, d(100)}, {b, d(20)}},
			remaining: d(0),
		},
		{
			name:      "reversed order",
			amount:    d(120),
			targets:   []AllocationTarget{{b, d(50)}, {a, d(100)}},
			want:      []AllocationResult{{b, d(50)}, {a, d(70)}},
			remaining: d(0),
		},
		{
			name:      "advance left over",
			amount:    d(200),
			targets:   []AllocationTarget{{a, d(100)}, {b, d(50)}},
			want:      []AllocationResult{{a, d(100)}, {b, d(50)}},
			remaining: d(50),
		},
		{
			name:      "zero debt skipped",
			amount:    d(30),
			targets:   []AllocationTarget{{a, d(0)}, {b, d(10)}, {c, d(40)}},
			want:      []AllocationResult{{b, d(10)}, {c, d(20)}},
			remaining: d(0),
		},
		{
			name:      "no targets",
			amount:    d(30),
			want:      []AllocationResult{},
			remaining: d(30),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := s.Allocate(tt.amount, tt.targets)
			require.NoError(t, err)
			require.Len(t, plan.Allocations, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w.TargetID, plan.Allocations[i].TargetID)
				assert.True(t, w.Amount.Equal(plan.Allocations[i].Amount), "allocation %d: %s", i, plan.Allocations[i].Amount)
				assert.True(t, plan.Allocations[i].Amount.IsPositive())
			}
			assert.True(t, tt.remaining.Equal(plan.Remaining))
			assert.True(t, tt.amount.Equal(plan.TotalAllocated.Add(plan.Remaining)))
		})
	}
}

func TestSequentialAllocationStrategy_Errors(t *testing.T) {
	s := NewSequentialAllocationStrategy()

	_, err := s.Allocate(decimal.Zero, nil)
	assert.True(t, shared.IsValidationError(err))

	_, err = s.Allocate(decimal.NewFromInt(10), []AllocationTarget{{uuid.New(), decimal.NewFromInt(-1)}})
	assert.True(t, shared.IsConsistencyFault(err))
}
