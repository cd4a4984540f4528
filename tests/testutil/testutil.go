// Package testutil opens throwaway databases, seeds the reference rows billing
// scenarios need and drives gin engines from tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/contract"
	"github.com/adspace/backoffice/internal/domain/identity"
	"github.com/adspace/backoffice/internal/domain/partner"
	"github.com/adspace/backoffice/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDB opens an in-memory SQLite database carrying the full schema.
// A single connection keeps every statement on the same in-memory database,
// which also serializes transactions the way row locks would on Postgres.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, persistence.AutoMigrate(db), "Failed to migrate schema")
	return db
}

// Fixture holds the reference rows shared by billing scenarios.
type Fixture struct {
	DB           *gorm.DB
	Manager      *identity.User
	Counterparty *partner.Counterparty
}

// NewFixture opens a fresh database and stores one manager and one counterparty.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	ctx := context.Background()
	db := NewSQLiteDB(t)

	mgr, err := identity.NewUser("manager@test.com", "Борис", identity.RoleManager)
	require.NoError(t, err)
	require.NoError(t, mgr.SetPassword("secret123"))
	require.NoError(t, persistence.NewGormUserRepository(db).Save(ctx, mgr))

	cp, err := partner.NewCounterparty(partner.CounterpartyTypeLLC, "ООО Ромашка", "Ромашка", "7701234567")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCounterpartyRepository(db).Save(ctx, cp))

	return &Fixture{DB: db, Manager: mgr, Counterparty: cp}
}

// ContractWithMonthly stores an active contract whose single specification
// covers [start, end] and bills one monthly line of the given amount.
func (f *Fixture) ContractWithMonthly(t *testing.T, number string, start, end time.Time, amount int64) *contract.Contract {
	t.Helper()

	c, err := contract.NewContract(number, start, f.Counterparty.ID, f.Manager.ID, catalog.BusinessCategoryDrinks)
	require.NoError(t, err)
	spec, err := c.AddSpecification("1", start, end, "Размещение")
	require.NoError(t, err)
	_, err = spec.AddService(contract.ServiceLine{
		Description: "Аренда LED-экрана",
		BillingType: contract.BillingTypeMonthly,
		Amount:      decimal.NewFromInt(amount),
		ServiceType: catalog.ServiceTypePlacement,
	})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormContractRepository(f.DB).Save(context.Background(), c))
	return c
}

// Day returns midnight UTC of the given calendar day.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
