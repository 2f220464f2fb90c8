package storefront

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type WishlistMessage struct {
	UserID    string `json:"-"`
	ProductID string `json:"productId"`
}

func (e WishlistMessage) Type() string { return "user.wishlist" }

func (e WishlistMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ProductID, validation.Required, is.UUID),
	)
}

// AddToWishlist adds a product, adding it twice keeps a single entry
func (f *AuthFlow) AddToWishlist(ctx context.Context, msg WishlistMessage) error {
	return f.run(ctx, "wishlist add", func(ctx context.Context) error {
		if err := msg.Validate(); err != nil {
			return validationError(err, "invalid wishlist payload")
		}
		if err := f.repo.Users().AddToWishlist(ctx, msg.UserID, msg.ProductID); err != nil {
			if IsNotFound(err) {
				return ErrUserNotFound
			}
			return internalError(err, "failed to add to wishlist")
		}
		return nil
	})
}

func (f *AuthFlow) RemoveFromWishlist(ctx context.Context, msg WishlistMessage) error {
	return f.run(ctx, "wishlist remove", func(ctx context.Context) error {
		if err := msg.Validate(); err != nil {
			return validationError(err, "invalid wishlist payload")
		}
		if err := f.repo.Users().RemoveFromWishlist(ctx, msg.UserID, msg.ProductID); err != nil {
			if IsNotFound(err) {
				return ErrUserNotFound
			}
			return internalError(err, "failed to remove from wishlist")
		}
		return nil
	})
}

// Wishlist returns the products on the user's wishlist. Entries whose
// product no longer exists are skipped.
func (f *AuthFlow) Wishlist(ctx context.Context, userID string) ([]*Product, error) {
	var products []*Product
	err := f.run(ctx, "wishlist lookup", func(ctx context.Context) error {
		user, err := f.findUserByID(ctx, userID)
		if err != nil {
			return err
		}

		if len(user.Wishlist) == 0 {
			products = []*Product{}
			return nil
		}

		products, err = f.repo.Products().GetByIDs(ctx, user.Wishlist)
		if err != nil {
			return internalError(err, "failed to load wishlist products")
		}
		return nil
	})
	return products, err
}
