package storefront

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type ForgotPasswordMessage struct {
	Email string `json:"email" example:"pepe.rone@example.com"`
}

func (e ForgotPasswordMessage) Type() string { return "user.password_reset.request" }

func (e ForgotPasswordMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
	)
}

type ForgotPasswordResponse struct {
	Message string `json:"message"`
}

// ForgotPassword mails a reset link to a known email
func (f *AuthFlow) ForgotPassword(ctx context.Context, msg ForgotPasswordMessage) (*ForgotPasswordResponse, error) {
	var resp *ForgotPasswordResponse
	err := f.run(ctx, "password reset request", func(ctx context.Context) error {
		msg.Email = NormalizeEmail(msg.Email)
		if err := msg.Validate(); err != nil {
			return validationError(err, "invalid password reset payload")
		}

		user, err := f.findUserByEmail(ctx, msg.Email)
		if err != nil {
			return err
		}

		token, err := f.tokens.IssueResetToken(user.Email)
		if err != nil {
			return internalError(err, "failed to issue reset token")
		}

		f.sendMail(ctx, Mail{
			To:            user.Email,
			RecipientName: user.Name,
			Subject:       "Reset your password",
			Link:          f.resetLink(token),
			CallToAction:  "Click to create a new password",
		})

		resp = &ForgotPasswordResponse{Message: "Create a new password, please check your email"}
		return nil
	})
	return resp, err
}

type ResetPasswordMessage struct {
	Token    string `json:"accessToken" doc:"Reset token from the emailed link."`
	Password string `json:"password"`
}

func (e ResetPasswordMessage) Type() string { return "user.password_reset.finalize" }

// ResetPassword verifies the reset token, then the password, then the
// account, and overwrites the stored hash.
func (f *AuthFlow) ResetPassword(ctx context.Context, msg ResetPasswordMessage) (*SessionResponse, error) {
	var resp *SessionResponse
	err := f.run(ctx, "password reset", func(ctx context.Context) error {
		if msg.Token == "" {
			return ErrTokenInvalid
		}

		claims, err := f.tokens.Verify(msg.Token, TokenKindReset)
		if err != nil {
			return err
		}

		if err := checkPassword(msg.Password); err != nil {
			return err
		}

		user, err := f.findUserByEmail(ctx, NormalizeEmail(claims.Email()))
		if err != nil {
			return err
		}

		hash, err := HashPassword(msg.Password)
		if err != nil {
			return internalError(err, "failed to hash password")
		}

		user, err = f.repo.Users().UpdatePassword(ctx, user.ID.String(), hash)
		if err != nil {
			if IsNotFound(err) {
				return ErrUserNotFound
			}
			return internalError(err, "failed to update password")
		}

		token, err := f.tokens.IssueAccessToken(NewIdentityFromUser(user))
		if err != nil {
			return internalError(err, "failed to issue access token")
		}

		f.logger.Info("password reset", "user_id", user.ID.String())

		resp = &SessionResponse{User: user.ToProfile(), AccessToken: token}
		return nil
	})
	return resp, err
}

type ChangePasswordMessage struct {
	UserID   string `json:"-"`
	Password string `json:"password"`
}

func (e ChangePasswordMessage) Type() string { return "user.password_change" }

// ChangePassword overwrites the hash of an authenticated user
func (f *AuthFlow) ChangePassword(ctx context.Context, msg ChangePasswordMessage) error {
	return f.run(ctx, "password change", func(ctx context.Context) error {
		if len(msg.Password) < MinPasswordLength {
			return ErrWeakPassword
		}

		user, err := f.findUserByID(ctx, msg.UserID)
		if err != nil {
			return err
		}

		hash, err := HashPassword(msg.Password)
		if err != nil {
			return internalError(err, "failed to hash password")
		}

		if _, err := f.repo.Users().UpdatePassword(ctx, user.ID.String(), hash); err != nil {
			if IsNotFound(err) {
				return ErrUserNotFound
			}
			return internalError(err, "failed to update password")
		}

		return nil
	})
}
