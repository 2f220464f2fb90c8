package storefront

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

type ActivateEmailMessage struct {
	Token string `json:"accessToken" doc:"Activation token from the emailed link."`
}

func (e ActivateEmailMessage) Type() string { return "user.activate_email" }

func (e ActivateEmailMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Token, validation.Required),
	)
}

// SessionResponse is returned by flows that end with a signed in user
type SessionResponse struct {
	User        *Profile `json:"user"`
	AccessToken string   `json:"token"`
}

// ActivateEmail turns the pending account inside an activation token into
// a stored user with the default role.
func (f *AuthFlow) ActivateEmail(ctx context.Context, msg ActivateEmailMessage) (*SessionResponse, error) {
	var resp *SessionResponse
	err := f.run(ctx, "email activation", func(ctx context.Context) error {
		if err := msg.Validate(); err != nil {
			return ErrTokenInvalid
		}

		claims, err := f.tokens.Verify(msg.Token, TokenKindActivation)
		if err != nil {
			return err
		}

		pending := claims.Pending
		if pending == nil || pending.Email == "" || pending.PasswordHash == "" {
			return ErrTokenInvalid
		}

		taken, err := f.emailTaken(ctx, pending.Email)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateAccount
		}

		user, err := f.repo.Users().Create(ctx, &User{
			ID:           uuid.New(),
			Name:         strings.TrimSpace(pending.Name),
			Email:        pending.Email,
			PasswordHash: pending.PasswordHash,
			Role:         RoleCustomer,
		})
		if err != nil {
			return internalError(err, "failed to create user")
		}

		token, err := f.tokens.IssueAccessToken(NewIdentityFromUser(user))
		if err != nil {
			return internalError(err, "failed to issue access token")
		}

		f.logger.Info("account activated", "user_id", user.ID.String())

		resp = &SessionResponse{User: user.ToProfile(), AccessToken: token}
		return nil
	})
	return resp, err
}
