package google

import "github.com/goliatone/go-errors"

const (
	TextCodeInvalidIDToken = "google_invalid_id_token"
	TextCodeInvalidIssuer  = "google_invalid_issuer"
	TextCodeMissingClient  = "google_missing_client_id"
)

// ErrInvalidIDToken is returned when the ID token fails verification.
var ErrInvalidIDToken = errors.New("invalid google id token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidIDToken).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidIssuer is returned when the token was not issued by Google.
var ErrInvalidIssuer = errors.New("invalid google id token issuer", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidIssuer).
	WithCode(errors.CodeUnauthorized)

// ErrMissingClientID is returned by New without a client id.
var ErrMissingClientID = errors.New("google client id is required", errors.CategoryBadInput).
	WithTextCode(TextCodeMissingClient).
	WithCode(errors.CodeBadRequest)

func invalidToken(err error) error {
	return errors.Wrap(err, ErrInvalidIDToken.Category, ErrInvalidIDToken.Message).
		WithTextCode(ErrInvalidIDToken.TextCode).
		WithCode(ErrInvalidIDToken.Code)
}
