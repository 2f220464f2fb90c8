package mongostore

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/goliatone/go-storefront"
)

// Products implements storefront.Products
type Products struct {
	coll *mongo.Collection
}

// GetByIDs returns the products in the order of ids. Unknown ids are skipped.
func (p *Products) GetByIDs(ctx context.Context, ids []string) ([]*storefront.Product, error) {
	if len(ids) == 0 {
		return []*storefront.Product{}, nil
	}

	cursor, err := p.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return orderProducts(ids, docs), nil
}

func (p *Products) Create(ctx context.Context, product *storefront.Product) (*storefront.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	doc := productDocument{
		ID:    product.ID.String(),
		Name:  product.Name,
		Price: product.Price,
		Image: product.Image,
	}
	if _, err := p.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toProduct(), nil
}

func orderProducts(ids []string, docs []productDocument) []*storefront.Product {
	byID := make(map[string]productDocument, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	out := make([]*storefront.Product, 0, len(docs))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, d.toProduct())
		}
	}
	return out
}
