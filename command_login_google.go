package storefront

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

type GoogleLoginMessage struct {
	IDToken string `json:"tokenId" doc:"Google ID token."`
}

func (e GoogleLoginMessage) Type() string { return "user.login_google" }

func (e GoogleLoginMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.IDToken, validation.Required),
	)
}

// LoginWithGoogle signs in the owner of a verified Google ID token,
// provisioning an account on first use.
//
// Provisioned accounts get a password hash of email+GoogleLoginSecret so
// they carry a credential like every other account.
func (f *AuthFlow) LoginWithGoogle(ctx context.Context, msg GoogleLoginMessage) (*LoginResponse, error) {
	var resp *LoginResponse
	err := f.run(ctx, "google login", func(ctx context.Context) error {
		if f.oauth == nil {
			return goerrors.New("google login is not configured", goerrors.CategoryInternal).
				WithCode(goerrors.CodeInternal)
		}

		if err := msg.Validate(); err != nil {
			return ErrTokenInvalid
		}

		identity, err := f.oauth.Verify(ctx, msg.IDToken)
		if err != nil {
			f.logger.Debug("google token verification failed", "error", err)
			return tokenInvalid(err)
		}

		if !identity.EmailVerified {
			return ErrEmailUnverified
		}

		email := NormalizeEmail(identity.Email)
		if email == "" {
			return ErrTokenInvalid
		}

		user, err := f.repo.Users().GetByEmail(ctx, email)
		if err == nil {
			resp, err = f.session(user)
			return err
		}
		if !IsNotFound(err) {
			return internalError(err, "failed to retrieve user")
		}

		user, err = f.provisionOAuthUser(ctx, email, identity)
		if err != nil {
			return err
		}

		resp, err = f.session(user)
		return err
	})
	return resp, err
}

func (f *AuthFlow) provisionOAuthUser(ctx context.Context, email string, identity *OAuthClaims) (*User, error) {
	secret := f.cfg.GetGoogleLoginSecret()
	if secret == "" {
		// without the secret the derived password is the bare email
		return nil, ErrGoogleLoginSecretMissing
	}

	hash, err := HashPassword(email + secret)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	record := &User{
		Name:         strings.TrimSpace(identity.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         RoleCustomer,
		Avatar:       identity.Picture,
	}

	// same email, same id: concurrent first logins collide in the store
	id, err := hashid.NewUUID(email)
	if err != nil {
		return nil, internalError(err, "failed to derive user id")
	}
	record.ID = id

	user, err := f.repo.Users().Create(ctx, record)
	if err == nil {
		f.logger.Info("provisioned google account", "user_id", user.ID.String())
		return user, nil
	}

	if IsDuplicateAccount(err) {
		return f.findUserByEmail(ctx, email)
	}

	return nil, internalError(err, "failed to create user")
}
