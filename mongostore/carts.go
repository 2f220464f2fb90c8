package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goliatone/go-storefront"
)

// Carts implements storefront.Carts
type Carts struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (c *Carts) GetByOwner(ctx context.Context, userID string) (*storefront.Cart, error) {
	var doc cartDocument
	if err := c.coll.FindOne(ctx, bson.M{"order_by": userID}).Decode(&doc); err != nil {
		return nil, mapError(err, nil, map[string]any{"order_by": userID})
	}
	return doc.toCart(), nil
}

// Save upserts the cart keyed by its owner
func (c *Carts) Save(ctx context.Context, cart *storefront.Cart) (*storefront.Cart, error) {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	doc := cartToDocument(cart, c.now().UTC())

	update := bson.M{
		"$set": bson.M{
			"products":             doc.Products,
			"cart_total":           doc.CartTotal,
			"total_after_discount": doc.TotalAfterDiscount,
			"updated_at":           doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        doc.ID,
			"created_at": doc.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved cartDocument
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"order_by": doc.OrderBy}, update, opts).Decode(&saved)
	if err != nil {
		return nil, mapError(err, nil, map[string]any{"order_by": doc.OrderBy})
	}
	return saved.toCart(), nil
}

func (c *Carts) SetTotalAfterDiscount(ctx context.Context, cartID string, total float64) error {
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": cartID}, bson.M{
		"$set": bson.M{
			"total_after_discount": total,
			"updated_at":           c.now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(map[string]any{"id": cartID})
	}
	return nil
}
