package finance

import (
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationTarget is an outstanding debt a payment may cover
type AllocationTarget struct {
	ID   uuid.UUID
	Debt decimal.Decimal
}

// AllocationResult is the amount assigned to one target
type AllocationResult struct {
	TargetID uuid.UUID
	Amount   decimal.Decimal
}

// AllocationPlan is the outcome of running a strategy
type AllocationPlan struct {
	Allocations    []AllocationResult
	TotalAllocated decimal.Decimal
	Remaining      decimal.Decimal
}

// AllocationStrategy distributes an amount over targets
type AllocationStrategy interface {
	Name() string
	Allocate(amount decimal.Decimal, targets []AllocationTarget) (*AllocationPlan, error)
}

// SequentialAllocationStrategy fills targets strictly in the given order.
// Each target receives min(debt, remaining); targets without debt are skipped.
type SequentialAllocationStrategy struct{}

// NewSequentialAllocationStrategy creates the strategy
func NewSequentialAllocationStrategy() *SequentialAllocationStrategy {
	return &SequentialAllocationStrategy{}
}

// Name returns the strategy name
func (s *SequentialAllocationStrategy) Name() string {
	return "sequential"
}

// Allocate walks the targets in order until the amount is exhausted
func (s *SequentialAllocationStrategy) Allocate(amount decimal.Decimal, targets []AllocationTarget) (*AllocationPlan, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	plan := &AllocationPlan{
		Allocations:    make([]AllocationResult, 0, len(targets)),
		TotalAllocated: decimal.Zero,
		Remaining:      amount,
	}
	for _, t := range targets {
		if t.Debt.IsNegative() {
			return nil, shared.NewConsistencyFault("NEGATIVE_DEBT", "Allocation target "+t.ID.String()+" has negative debt")
		}
		if plan.Remaining.IsZero() {
			break
		}
		if t.Debt.IsZero() {
			continue
		}
		alloc := decimal.Min(t.Debt, plan.Remaining)
		plan.Allocations = append(plan.Allocations, AllocationResult{TargetID: t.ID, Amount: alloc})
		plan.TotalAllocated = plan.TotalAllocated.Add(alloc)
		plan.Remaining = plan.Remaining.Sub(alloc)
	}
	return plan, nil
}
