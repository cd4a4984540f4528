package persistence

import (
	"errors"

	"github.com/adspace/backoffice/internal/domain/shared"
)

// dbErr wraps a storage failure. Single-row lookups treat a missing row as
// "absent" before calling it; anywhere else a missing row is a failure.
func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) || shared.IsPersistenceError(err) {
		return err
	}
	return shared.NewPersistenceError(op, err)
}
