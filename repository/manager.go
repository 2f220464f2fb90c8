// Package repository implements the storefront stores on top of bun.
package repository

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront"
)

// Manager implements storefront.RepositoryManager
type Manager struct {
	db       *bun.DB
	users    *Users
	coupons  *Coupons
	carts    *Carts
	products *Products
}

var _ storefront.RepositoryManager = (*Manager)(nil)

func NewRepositoryManager(db *bun.DB) *Manager {
	return &Manager{
		db:       db,
		users:    NewUsersRepository(db),
		coupons:  NewCouponsRepository(db),
		carts:    NewCartsRepository(db),
		products: NewProductsRepository(db),
	}
}

func (m *Manager) Validate() error {
	if m.db == nil {
		return errors.New("repository db should be initialized")
	}
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}
	if m.coupons == nil {
		return errors.New("repository coupons should be initialized")
	}
	if m.carts == nil {
		return errors.New("repository carts should be initialized")
	}
	if m.products == nil {
		return errors.New("repository products should be initialized")
	}
	return nil
}

func (m *Manager) Users() storefront.Users {
	return m.users
}

func (m *Manager) Coupons() storefront.Coupons {
	return m.coupons
}

func (m *Manager) Carts() storefront.Carts {
	return m.carts
}

func (m *Manager) Products() storefront.Products {
	return m.products
}

// Migrate creates the storefront tables when missing
func Migrate(ctx context.Context, db bun.IDB) error {
	models := []any{
		(*storefront.User)(nil),
		(*WishlistItem)(nil),
		(*storefront.Coupon)(nil),
		(*storefront.Cart)(nil),
		(*storefront.Product)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
