package storefront

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
)

type RefreshTokenMessage struct {
	RefreshToken string `json:"refreshToken"`
}

func (e RefreshTokenMessage) Type() string { return "user.refresh_token" }

func (e RefreshTokenMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.RefreshToken, validation.Required),
	)
}

// RefreshToken exchanges a refresh token for a new pair. Refresh is
// stateless: the presented token stays valid until it expires.
func (f *AuthFlow) RefreshToken(ctx context.Context, msg RefreshTokenMessage) (*TokenPair, error) {
	var pair *TokenPair
	err := f.run(ctx, "token refresh", func(ctx context.Context) error {
		if err := msg.Validate(); err != nil {
			return validationError(err, "refresh token is required")
		}

		claims, err := f.tokens.Verify(msg.RefreshToken, TokenKindRefresh)
		if err != nil {
			return err
		}

		if claims.UserID() == "" {
			return tokenInvalid(ErrMissingSubject)
		}

		pair, err = f.tokens.IssueTokenPair(claimsIdentity{claims})
		if err != nil {
			return internalError(err, "failed to issue tokens")
		}
		return nil
	})
	return pair, err
}

