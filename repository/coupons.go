package repository

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront"
)

// Coupons implements storefront.Coupons
type Coupons struct {
	repo repository.Repository[*storefront.Coupon]
}

var _ storefront.Coupons = (*Coupons)(nil)

func NewCouponsRepository(db *bun.DB) *Coupons {
	repo := repository.NewRepository[*storefront.Coupon](db, repository.ModelHandlers[*storefront.Coupon]{
		NewRecord: func() *storefront.Coupon { return &storefront.Coupon{} },
		GetID: func(c *storefront.Coupon) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *storefront.Coupon, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})
	return &Coupons{repo: repo}
}

func (c *Coupons) GetByName(ctx context.Context, name string) (*storefront.Coupon, error) {
	name = storefront.NormalizeCouponName(name)
	meta := map[string]any{"name": name}
	if name == "" {
		return nil, notFound(meta)
	}

	coupon, err := c.repo.GetByIdentifier(ctx, name)
	if err != nil {
		return nil, mapError(err, nil, meta)
	}
	return coupon, nil
}

func (c *Coupons) Create(ctx context.Context, coupon *storefront.Coupon) (*storefront.Coupon, error) {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	coupon.Name = storefront.NormalizeCouponName(coupon.Name)

	created, err := c.repo.Create(ctx, coupon)
	if err != nil {
		return nil, mapError(err, storefront.ErrDuplicateCoupon, map[string]any{
			"name": coupon.Name,
		})
	}
	return created, nil
}
