package repository

import (
	"database/sql"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"

	"github.com/goliatone/go-storefront"
)

func isNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation matches sqlite and postgres unique index failures
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value")
}

func notFound(meta map[string]any) error {
	return storefront.ErrRecordNotFound.Clone().WithMetadata(meta)
}

// mapError translates driver errors into the storefront store contract.
// duplicate is returned for unique violations and may be nil.
func mapError(err error, duplicate *goerrors.Error, meta map[string]any) error {
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return notFound(meta)
	case duplicate != nil && isUniqueViolation(err):
		return duplicate.Clone().WithMetadata(meta)
	default:
		return err
	}
}
