package persistence

import (
	"context"
	"errors"

	appbilling "github.com/adspace/backoffice/internal/application/billing"
	appfinance "github.com/adspace/backoffice/internal/application/finance"
	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/contract"
	"github.com/adspace/backoffice/internal/domain/finance"
	"github.com/adspace/backoffice/internal/domain/partner"
	"github.com/adspace/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransactionScope runs application work inside one GORM transaction.
// If the function returns an error, the transaction is rolled back.
// Domain errors pass through unchanged; any other failure, including a failed
// commit, is reported as *shared.PersistenceError.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) || shared.IsPersistenceError(err) {
		return err
	}
	return shared.NewPersistenceError("transaction", err)
}

// Billing returns the scope as seen by the realization services
func (s *GormTransactionScope) Billing() appbilling.TransactionScope {
	return billingScope{s}
}

// Finance returns the scope as seen by the payment service
func (s *GormTransactionScope) Finance() appfinance.TransactionScope {
	return financeScope{s}
}

type billingScope struct{ s *GormTransactionScope }

// Execute runs fn with repositories bound to one transaction
func (b billingScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return b.s.run(ctx, func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type financeScope struct{ s *GormTransactionScope }

// Execute runs fn with repositories bound to one transaction
func (f financeScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return f.s.run(ctx, func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Contracts returns the contract repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Contracts() contract.Repository {
	return NewGormContractRepository(r.tx)
}

// Realizations returns the realization repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Realizations() billing.RealizationRepository {
	return NewGormRealizationRepository(r.tx)
}

// Counterparties returns the counterparty repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Counterparties() partner.CounterpartyRepository {
	return NewGormCounterpartyRepository(r.tx)
}

// Payments returns the payment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

var (
	_ appbilling.TransactionScope          = billingScope{}
	_ appfinance.TransactionScope          = financeScope{}
	_ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appfinance.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
