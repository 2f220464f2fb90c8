package storefront

import (
	"context"
)

// Users is the credential store. Implementations must enforce email
// uniqueness and return ErrDuplicateAccount on conflict, and return an
// error matching IsNotFound on a miss.
type Users interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (*User, error)
	UpdateProfile(ctx context.Context, id, name, sex string) (*User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (*User, error)
	SaveAddress(ctx context.Context, id, address, paymentMethod string) (*User, error)
	// AddToWishlist is a set add, adding an existing product is a no-op
	AddToWishlist(ctx context.Context, id, productID string) error
	RemoveFromWishlist(ctx context.Context, id, productID string) error
}

// Coupons stores discount coupons keyed by their upper-cased name
type Coupons interface {
	GetByName(ctx context.Context, name string) (*Coupon, error)
	Create(ctx context.Context, coupon *Coupon) (*Coupon, error)
}

// Carts stores the single cart each user owns
type Carts interface {
	GetByOwner(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) (*Cart, error)
	SetTotalAfterDiscount(ctx context.Context, cartID string, total float64) error
}

// Products is the read side of the catalog
type Products interface {
	GetByIDs(ctx context.Context, ids []string) ([]*Product, error)
	Create(ctx context.Context, product *Product) (*Product, error)
}

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	Users() Users
	Coupons() Coupons
	Carts() Carts
	Products() Products
}
