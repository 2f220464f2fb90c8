package storefront

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type RegisterUserMessage struct {
	Name     string `json:"name" example:"Pepe Rone" doc:"Customer display name."`
	Email    string `json:"email" example:"pepe.rone@example.com" doc:"Customer email."`
	Password string `json:"password" doc:"Clear text password, at least 6 characters."`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate checks name and email. Password rules are applied by the
// flow after the duplicate check.
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Email, validation.Required, is.Email),
	)
}

type RegisterUserResponse struct {
	Message string `json:"message"`
}

// Register validates the request and mails an activation link carrying
// the pending account. No user record is written.
func (f *AuthFlow) Register(ctx context.Context, msg RegisterUserMessage) (*RegisterUserResponse, error) {
	var resp *RegisterUserResponse
	err := f.run(ctx, "user registration", func(ctx context.Context) error {
		msg.Email = NormalizeEmail(msg.Email)
		msg.Name = strings.TrimSpace(msg.Name)

		if err := msg.Validate(); err != nil {
			return validationError(err, "invalid registration payload")
		}

		taken, err := f.emailTaken(ctx, msg.Email)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateAccount
		}

		if err := checkPassword(msg.Password); err != nil {
			return err
		}

		hash, err := HashPassword(msg.Password)
		if err != nil {
			return internalError(err, "failed to hash password")
		}

		token, err := f.tokens.IssueActivationToken(PendingRegistration{
			Name:         msg.Name,
			Email:        msg.Email,
			PasswordHash: hash,
		})
		if err != nil {
			return internalError(err, "failed to issue activation token")
		}

		f.sendMail(ctx, Mail{
			To:            msg.Email,
			RecipientName: msg.Name,
			Subject:       "Verify your email address",
			Link:          f.activationLink(token),
			CallToAction:  "Click to active your email",
		})

		resp = &RegisterUserResponse{Message: "Activate your account"}
		return nil
	})
	return resp, err
}
