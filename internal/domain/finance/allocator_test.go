package finance

import (
	"testing"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func realizationFor(t *testing.T, counterpartyID uuid.UUID, amount int64) *billing.Realization {
	t.Helper()
	r, err := billing.NewAutoRealization(billing.Period{Year: 2025, Month: 1}, billing.AutoParams{
		CounterpartyID:         counterpartyID,
		ManagerID:              uuid.New(),
		ContractID:             uuid.New(),
		SpecificationID:        uuid.New(),
		SpecificationServiceID: uuid.New(),
		Description:            "Placement",
		Amount:                 decimal.NewFromInt(amount),
		ServiceType:            catalog.ServiceTypePlacement,
	})
	require.NoError(t, err)
	return r
}

func TestAllocator_Allocate(t *testing.T) {
	p, err := NewPayment(details("120"))
	require.NoError(t, err)
	r1 := realizationFor(t, p.CounterpartyID, 100)
	r2 := realizationFor(t, p.CounterpartyID, 50)

	touched, err := NewAllocator(nil).Allocate(p, []*billing.Realization{r1, r2})
	require.NoError(t, err)

	assert.Len(t, touched, 2)
	assert.Equal(t, billing.PaymentStatusPaid, r1.PaymentStatus)
	assert.Equal(t, billing.PaymentStatusPartiallyPaid, r2.PaymentStatus)
	assert.True(t, r2.PaidAmount.Equal(decimal.NewFromInt(20)))
	assert.True(t, p.UnallocatedAmount.IsZero())
	require.Len(t, p.Allocations, 2)
	assert.Equal(t, r1.ID, p.Allocations[0].RealizationID)
}

func TestAllocator_Allocate_Advance(t *testing.T) {
	p, err := NewPayment(details("500"))
	require.NoError(t, err)
	paid := realizationFor(t, p.CounterpartyID, 100)
	require.NoError(t, paid.ApplyPayment(decimal.NewFromInt(100)))
	open := realizationFor(t, p.CounterpartyID, 100)

	touched, err := NewAllocator(nil).Allocate(p, []*billing.Realization{paid, open})
	require.NoError(t, err)
	assert.Equal(t, []*billing.Realization{open}, touched)
	assert.True(t, p.UnallocatedAmount.Equal(decimal.NewFromInt(400)))
	assert.Len(t, p.Allocations, 1, "no zero-amount links")
}

func TestAllocator_Allocate_Rejects(t *testing.T) {
	t.Run("other counterparty", func(t *testing.T) {
		p, err := NewPayment(details("10"))
		require.NoError(t, err)
		_, err = NewAllocator(nil).Allocate(p, []*billing.Realization{realizationFor(t, uuid.New(), 10)})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "REALIZATION_COUNTERPARTY_MISMATCH", de.Code)
		assert.True(t, p.UnallocatedAmount.Equal(decimal.NewFromInt(10)))
	})

	t.Run("duplicate", func(t *testing.T) {
		p, err := NewPayment(details("10"))
		require.NoError(t, err)
		r := realizationFor(t, p.CounterpartyID, 10)
		_, err = NewAllocator(nil).Allocate(p, []*billing.Realization{r, r})
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("overpaid realization is a consistency fault", func(t *testing.T) {
		p, err := NewPayment(details("10"))
		require.NoError(t, err)
		r := realizationFor(t, p.CounterpartyID, 10)
		r.PaidAmount = decimal.NewFromInt(20)
		_, err = NewAllocator(nil).Allocate(p, []*billing.Realization{r})
		assert.True(t, shared.IsConsistencyFault(err))
	})
}

func TestAllocator_Reverse(t *testing.T) {
	p, err := NewPayment(details("120"))
	require.NoError(t, err)
	r1 := realizationFor(t, p.CounterpartyID, 100)
	r2 := realizationFor(t, p.CounterpartyID, 50)
	require.NoError(t, r2.ApplyPayment(decimal.NewFromInt(10))) // paid by an earlier payment

	alloc := NewAllocator(nil)
	_, err = alloc.Allocate(p, []*billing.Realization{r1, r2})
	require.NoError(t, err)

	released := p.ReleaseAllocations()
	assert.True(t, SumAllocations(released).Equal(decimal.NewFromInt(120)))

	touched, err := alloc.Reverse(released, map[uuid.UUID]*billing.Realization{r1.ID: r1, r2.ID: r2})
	require.NoError(t, err)
	assert.Len(t, touched, 2)
	assert.True(t, r1.PaidAmount.IsZero())
	assert.Equal(t, billing.PaymentStatusNotPaid, r1.PaymentStatus)
	assert.True(t, r2.PaidAmount.Equal(decimal.NewFromInt(10)), "earlier payment untouched")
	assert.Equal(t, billing.PaymentStatusPartiallyPaid, r2.PaymentStatus)

	_, err = alloc.Reverse(released, map[uuid.UUID]*billing.Realization{})
	assert.True(t, shared.IsConsistencyFault(err))
}
