package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/goliatone/go-storefront"
)

// Coupons implements storefront.Coupons
type Coupons struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (c *Coupons) GetByName(ctx context.Context, name string) (*storefront.Coupon, error) {
	name = storefront.NormalizeCouponName(name)

	var doc couponDocument
	if err := c.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		return nil, mapError(err, nil, map[string]any{"name": name})
	}
	return doc.toCoupon(), nil
}

func (c *Coupons) Create(ctx context.Context, coupon *storefront.Coupon) (*storefront.Coupon, error) {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	doc := couponToDocument(coupon, c.now().UTC())

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err, storefront.ErrDuplicateCoupon, map[string]any{"name": doc.Name})
	}
	return doc.toCoupon(), nil
}
