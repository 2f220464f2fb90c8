package storefront

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Profile returns the projection of the user identified by userID
func (f *AuthFlow) Profile(ctx context.Context, userID string) (*Profile, error) {
	var profile *Profile
	err := f.run(ctx, "profile lookup", func(ctx context.Context) error {
		user, err := f.findUserByID(ctx, userID)
		if err != nil {
			return err
		}
		profile = user.ToProfile()
		return nil
	})
	return profile, err
}

type UpdateProfileMessage struct {
	UserID string `json:"-"`
	Name   string `json:"name"`
	Sex    string `json:"sex"`
}

func (e UpdateProfileMessage) Type() string { return "user.profile.update" }

func (e UpdateProfileMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Sex, validation.Length(0, 20)),
	)
}

func (f *AuthFlow) UpdateProfile(ctx context.Context, msg UpdateProfileMessage) (*Profile, error) {
	var profile *Profile
	err := f.run(ctx, "profile update", func(ctx context.Context) error {
		msg.Name = strings.TrimSpace(msg.Name)
		if err := msg.Validate(); err != nil {
			return validationError(err, "invalid profile payload")
		}

		user, err := f.repo.Users().UpdateProfile(ctx, msg.UserID, msg.Name, msg.Sex)
		if err != nil {
			if IsNotFound(err) {
				return ErrUserNotFound
			}
			return internalError(err, "failed to update profile")
		}

		profile = user.ToProfile()
		return nil
	})
	return profile, err
}

type UpdateAvatarMessage struct {
	UserID string `json:"-"`
	Avatar string `json:"avatar" doc:"URI of an already hosted image."`
}

func (e UpdateAvatarMessage) Type() string { return "user.avatar.update" }

func (e UpdateAvatarMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Avatar, validation.Required, is.URL),
	)
}

func (f *AuthFlow) UpdateAvatar(ctx context.Context, msg UpdateAvatarMessage) (*Profile, error) {
	var profile *Profile
	err := f.run(ctx, "avatar update", func(ctx context.Context) error {
		if err := msg.Validate(); err != nil {
			return validationError(err, "invalid avatar payload")
		}

		user, err := f.repo.Users().UpdateAvatar(ctx, msg.UserID, msg.Avatar)
		if err != nil {
			if IsNotFound(err) {
				return ErrUserNotFound
			}
			return internalError(err, "failed to update avatar")
		}

		profile = user.ToProfile()
		return nil
	})
	return profile, err
}

type SaveAddressMessage struct {
	UserID        string `json:"-"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

func (e SaveAddressMessage) Type() string { return "user.address.save" }

func (e SaveAddressMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Address, validation.Required, validation.Length(1, 500)),
		validation.Field(&e.PaymentMethod, validation.Length(0, 100)),
	)
}

func (f *AuthFlow) SaveAddress(ctx context.Context, msg SaveAddressMessage) error {
	return f.run(ctx, "address update", func(ctx context.Context) error {
		if err := msg.Validate(); err != nil {
			return validationError(err, "invalid address payload")
		}

		if _, err := f.repo.Users().SaveAddress(ctx, msg.UserID, msg.Address, msg.PaymentMethod); err != nil {
			if IsNotFound(err) {
				return ErrUserNotFound
			}
			return internalError(err, "failed to save address")
		}
		return nil
	})
}
