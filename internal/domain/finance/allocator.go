package finance

import (
	"fmt"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocator applies a payment to realizations and takes allocations back.
// It only mutates the objects handed to it; persistence is up to the caller.
type Allocator struct {
	strategy AllocationStrategy
}

// NewAllocator creates an allocator; a nil strategy means sequential
func NewAllocator(strategy AllocationStrategy) *Allocator {
	if strategy == nil {
		strategy = NewSequentialAllocationStrategy()
	}
	return &Allocator{strategy: strategy}
}

// Allocate distributes the unallocated amount of the payment over the worklist in order.
// Realizations must belong to the payment's counterparty. Returns the realizations that
// received money.
func (a *Allocator) Allocate(p *Payment, worklist []*billing.Realization) ([]*billing.Realization, error) {
	targets := make([]AllocationTarget, 0, len(worklist))
	byID := make(map[uuid.UUID]*billing.Realization, len(worklist))
	for _, r := range worklist {
		if _, dup := byID[r.ID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_REALIZATION",
				fmt.Sprintf("Realization %s is listed more than once", r.ID))
		}
		if r.CounterpartyID != p.CounterpartyID {
			return nil, shared.NewDomainError("REALIZATION_COUNTERPARTY_MISMATCH",
				fmt.Sprintf("Realization %s belongs to another counterparty", r.ID))
		}
		if err := r.CheckConsistency(); err != nil {
			return nil, err
		}
		byID[r.ID] = r
		targets = append(targets, AllocationTarget{ID: r.ID, Debt: r.DebtAmount()})
	}

	touched := make([]*billing.Realization, 0)
	if p.UnallocatedAmount.IsZero() || len(targets) == 0 {
		return touched, p.CheckConservation()
	}

	plan, err := a.strategy.Allocate(p.UnallocatedAmount, targets)
	if err != nil {
		return nil, err
	}
	for _, res := range plan.Allocations {
		r := byID[res.TargetID]
		if err := r.ApplyPayment(res.Amount); err != nil {
			return nil, err
		}
		if _, err := p.RecordAllocation(r.ID, res.Amount); err != nil {
			return nil, err
		}
		touched = append(touched, r)
	}
	if !p.UnallocatedAmount.Equal(plan.Remaining) {
		return nil, shared.NewConsistencyFault("ALLOCATION_CONSERVATION", "Unallocated amount differs from the allocation plan")
	}
	return touched, p.CheckConservation()
}

// Reverse takes every given allocation back from its realization.
// All referenced realizations must be present in the map.
func (a *Allocator) Reverse(allocations []PaymentAllocation, realizations map[uuid.UUID]*billing.Realization) ([]*billing.Realization, error) {
	touched := make([]*billing.Realization, 0, len(allocations))
	seen := make(map[uuid.UUID]bool, len(allocations))
	for _, alloc := range allocations {
		r, ok := realizations[alloc.RealizationID]
		if !ok {
			return nil, shared.NewConsistencyFault("ALLOCATION_ORPHANED",
				fmt.Sprintf("Allocation %s references missing realization %s", alloc.ID, alloc.RealizationID))
		}
		if err := r.ReversePayment(alloc.Amount); err != nil {
			return nil, err
		}
		if !seen[r.ID] {
			seen[r.ID] = true
			touched = append(touched, r)
		}
	}
	return touched, nil
}

// SumAllocations totals allocation amounts
func SumAllocations(allocations []PaymentAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Amount)
	}
	return total
}
