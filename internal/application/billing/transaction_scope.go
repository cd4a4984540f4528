package billing

import (
	"context"

	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/contract"
	"github.com/adspace/backoffice/internal/domain/partner"
)

// TransactionScope runs realization work atomically.
// Non-domain errors returned by the closure (or by commit) reach the caller as
// *shared.PersistenceError and nothing is written.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories sharing one transaction
type TransactionalRepositories interface {
	Contracts() contract.Repository
	Realizations() billing.RealizationRepository
	Counterparties() partner.CounterpartyRepository
}
