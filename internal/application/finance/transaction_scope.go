package finance

import (
	"context"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/contract"
	"github.com/adspace/backoffice/internal/domain/finance"
	"github.com/adspace/backoffice/internal/domain/partner"
)

// TransactionScope runs a payment operation atomically.
// Non-domain errors returned by the closure (or by commit) reach the caller as
// *shared.PersistenceError and nothing is written.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories sharing one transaction.
// Realizations read through it for allocation are row-locked.
type TransactionalRepositories interface {
	Payments() finance.PaymentRepository
	Realizations() billing.RealizationRepository
	Counterparties() partner.CounterpartyRepository
	Contracts() contract.Repository
}
