package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront"
)

// Carts implements storefront.Carts. A user owns at most one cart.
type Carts struct {
	db  *bun.DB
	now func() time.Time
}

var _ storefront.Carts = (*Carts)(nil)

func NewCartsRepository(db *bun.DB) *Carts {
	return &Carts{db: db, now: time.Now}
}

func (c *Carts) GetByOwner(ctx context.Context, userID string) (*storefront.Cart, error) {
	meta := map[string]any{"order_by": userID}
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, notFound(meta)
	}

	cart := &storefront.Cart{}
	err = c.db.NewSelect().
		Model(cart).
		Where("order_by = ?", owner).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapError(err, nil, meta)
	}
	return cart, nil
}

// Save inserts the cart or replaces the lines and totals of the cart the
// owner already has.
func (c *Carts) Save(ctx context.Context, cart *storefront.Cart) (*storefront.Cart, error) {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	if cart.Products == nil {
		cart.Products = []storefront.CartItem{}
	}
	now := c.now()
	cart.UpdatedAt = &now

	_, err := c.db.NewInsert().
		Model(cart).
		On("CONFLICT (order_by) DO UPDATE").
		Set("products = EXCLUDED.products").
		Set("cart_total = EXCLUDED.cart_total").
		Set("total_after_discount = EXCLUDED.total_after_discount").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return c.GetByOwner(ctx, cart.OrderBy.String())
}

func (c *Carts) SetTotalAfterDiscount(ctx context.Context, cartID string, total float64) error {
	meta := map[string]any{"id": cartID}
	id, err := uuid.Parse(cartID)
	if err != nil {
		return notFound(meta)
	}

	res, err := c.db.NewUpdate().
		Model((*storefront.Cart)(nil)).
		Set("total_after_discount = ?", total).
		Set("updated_at = ?", c.now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(meta)
	}
	return nil
}
