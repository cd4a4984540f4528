package contract

import (
	"testing"
	"time"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func newTestContract(t *testing.T) *Contract {
	t.Helper()
	c, err := NewContract("A-17", date(2025, 1, 10), uuid.New(), uuid.New(), catalog.BusinessCategoryCheese)
	require.NoError(t, err)
	return c
}

func monthlyLine(desc string, amount int64) ServiceLine {
	return ServiceLine{
		Description: desc,
		BillingType: BillingTypeMonthly,
		Amount:      decimal.NewFromInt(amount),
		ServiceType: catalog.ServiceTypePlacement,
	}
}

func TestNewContract(t *testing.T) {
	cp, mgr := uuid.New(), uuid.New()
	tests := []struct {
		name    string
		number  string
		date    time.Time
		cp, mgr uuid.UUID
		cat     catalog.BusinessCategory
		wantErr bool
	}{
		{name: "valid", number: "A-1", date: date(2025, 1, 1), cp: cp, mgr: mgr, cat: catalog.BusinessCategoryDrinks},
		{name: "empty number", number: " ", date: date(2025, 1, 1), cp: cp, mgr: mgr, cat: catalog.BusinessCategoryDrinks, wantErr: true},
		{name: "zero date", number: "A-1", cp: cp, mgr: mgr, cat: catalog.BusinessCategoryDrinks, wantErr: true},
		{name: "no counterparty", number: "A-1", date: date(2025, 1, 1), mgr: mgr, cat: catalog.BusinessCategoryDrinks, wantErr: true},
		{name: "no manager", number: "A-1", date: date(2025, 1, 1), cp: cp, cat: catalog.BusinessCategoryDrinks, wantErr: true},
		{name: "bad category", number: "A-1", date: date(2025, 1, 1), cp: cp, mgr: mgr, cat: "TOYS", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContract(tt.number, tt.date, tt.cp, tt.mgr, tt.cat)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusActive, c.Status)
			assert.True(t, c.IsActive())
		})
	}
}

func TestContract_ArchiveActivate(t *testing.T) {
	c := newTestContract(t)
	require.NoError(t, c.Archive())
	assert.False(t, c.IsActive())
	assert.Error(t, c.Archive())
	require.NoError(t, c.Activate())
	assert.Error(t, c.Activate())
}

func TestContract_SetAppEndDate(t *testing.T) {
	c := newTestContract(t)
	assert.Error(t, c.SetAppEndDate(ptr(date(2024, 12, 31))))
	require.NoError(t, c.SetAppEndDate(ptr(date(2025, 12, 31))))
	assert.Equal(t, date(2025, 12, 31), *c.AppEndDate)
	require.NoError(t, c.SetAppEndDate(nil))
	assert.Nil(t, c.AppEndDate)
}

func TestContract_AddSpecification(t *testing.T) {
	c := newTestContract(t)

	spec, err := c.AddSpecification("1", date(2025, 1, 15), date(2025, 2, 10), "Screen at entrance")
	require.NoError(t, err)
	assert.Equal(t, c.ID, spec.ContractID)

	_, err = c.AddSpecification("1", date(2025, 3, 1), date(2025, 3, 31), "")
	assert.Error(t, err, "duplicate number")

	_, err = c.AddSpecification("2", date(2025, 3, 31), date(2025, 3, 1), "")
	assert.Error(t, err, "start after end")

	found, ok := c.Specification(spec.ID)
	require.True(t, ok)
	assert.Equal(t, "1", found.Number)
}

func TestSpecification_AddService(t *testing.T) {
	c := newTestContract(t)
	spec, err := c.AddSpecification("1", date(2025, 1, 15), date(2025, 2, 10), "")
	require.NoError(t, err)

	t.Run("valid open-ended", func(t *testing.T) {
		svc, err := spec.AddService(monthlyLine("Placement", 1000))
		require.NoError(t, err)
		assert.Equal(t, spec.ID, svc.SpecificationID)
		assert.Nil(t, svc.EndDate)
	})

	t.Run("end outside specification", func(t *testing.T) {
		line := monthlyLine("Late", 100)
		line.EndDate = ptr(date(2025, 3, 1))
		_, err := spec.AddService(line)
		assert.Error(t, err)
	})

	t.Run("start outside specification", func(t *testing.T) {
		line := monthlyLine("Early", 100)
		line.StartDate = ptr(date(2025, 1, 1))
		_, err := spec.AddService(line)
		assert.Error(t, err)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := spec.AddService(monthlyLine("Free", 0))
		assert.Error(t, err)
	})

	t.Run("bad billing type", func(t *testing.T) {
		line := monthlyLine("Yearly", 10)
		line.BillingType = "YEARLY"
		_, err := spec.AddService(line)
		assert.Error(t, err)
	})
}

func TestContract_MonthlyBillableLines(t *testing.T) {
	c := newTestContract(t)
	spec, err := c.AddSpecification("1", date(2025, 1, 15), date(2025, 2, 10), "")
	require.NoError(t, err)
	_, err = spec.AddService(monthlyLine("Placement", 1000))
	require.NoError(t, err)
	oneTime := monthlyLine("Installation", 500)
	oneTime.BillingType = BillingTypeOneTime
	_, err = spec.AddService(oneTime)
	require.NoError(t, err)
	short := monthlyLine("Short promo", 300)
	short.EndDate = ptr(date(2025, 1, 31))
	_, err = spec.AddService(short)
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end time.Time
		want       []string
	}{
		{name: "december", start: date(2024, 12, 1), end: date(2024, 12, 31)},
		{name: "january", start: date(2025, 1, 1), end: date(2025, 1, 31), want: []string{"Placement", "Short promo"}},
		{name: "february", start: date(2025, 2, 1), end: date(2025, 2, 28), want: []string{"Placement"}},
		{name: "march", start: date(2025, 3, 1), end: date(2025, 3, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, l := range c.MonthlyBillableLines(tt.start, tt.end) {
				assert.Same(t, c, l.Contract)
				got = append(got, l.Service.Description)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("archived contract yields nothing", func(t *testing.T) {
		require.NoError(t, c.Archive())
		assert.Empty(t, c.MonthlyBillableLines(date(2025, 1, 1), date(2025, 1, 31)))
	})
}
