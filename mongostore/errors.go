package mongostore

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/goliatone/go-storefront"
)

func notFound(meta map[string]any) error {
	return storefront.ErrRecordNotFound.Clone().WithMetadata(meta)
}

// mapError translates driver errors into the storefront store contract
func mapError(err error, duplicate *goerrors.Error, meta map[string]any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return notFound(meta)
	case duplicate != nil && mongo.IsDuplicateKeyError(err):
		return duplicate.Clone().WithMetadata(meta)
	default:
		return err
	}
}
