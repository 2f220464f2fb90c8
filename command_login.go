package storefront

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

type LoginMessage struct {
	Email    string `json:"email" example:"pepe.rone@example.com"`
	Password string `json:"password"`
}

func (e LoginMessage) Type() string { return "user.login" }

func (e LoginMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required),
	)
}

// LoginResponse carries the signed in profile and a token pair
type LoginResponse struct {
	User *Profile `json:"user"`
	TokenPair
}

// Login checks the password against the stored hash. The email is
// lower-cased and trimmed before the lookup.
func (f *AuthFlow) Login(ctx context.Context, msg LoginMessage) (*LoginResponse, error) {
	var resp *LoginResponse
	err := f.run(ctx, "login", func(ctx context.Context) error {
		msg.Email = NormalizeEmail(msg.Email)
		if err := msg.Validate(); err != nil {
			return validationError(err, "invalid login payload")
		}

		user, err := f.findUserByEmail(ctx, msg.Email)
		if err != nil {
			return err
		}

		if err := ComparePasswordAndHash(msg.Password, user.PasswordHash); err != nil {
			if errors.Is(err, ErrMismatchedHashAndPassword) {
				f.logger.Debug("login password mismatch", "user_id", user.ID.String())
				return ErrInvalidCredential
			}
			return internalError(err, "failed to compare password")
		}

		resp, err = f.session(user)
		return err
	})
	return resp, err
}

// session issues a token pair for user
func (f *AuthFlow) session(user *User) (*LoginResponse, error) {
	pair, err := f.tokens.IssueTokenPair(NewIdentityFromUser(user))
	if err != nil {
		return nil, internalError(err, "failed to issue tokens")
	}
	return &LoginResponse{User: user.ToProfile(), TokenPair: *pair}, nil
}
