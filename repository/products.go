package repository

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront"
)

// Products implements storefront.Products
type Products struct {
	repo repository.Repository[*storefront.Product]
	db   *bun.DB
}

var _ storefront.Products = (*Products)(nil)

func NewProductsRepository(db *bun.DB) *Products {
	repo := repository.NewRepository[*storefront.Product](db, repository.ModelHandlers[*storefront.Product]{
		NewRecord: func() *storefront.Product { return &storefront.Product{} },
		GetID: func(p *storefront.Product) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *storefront.Product, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})
	return &Products{repo: repo, db: db}
}

// GetByIDs returns the products in the order of ids. Unknown ids are skipped.
func (p *Products) GetByIDs(ctx context.Context, ids []string) ([]*storefront.Product, error) {
	valid := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if parsed, err := uuid.Parse(id); err == nil {
			valid = append(valid, parsed)
		}
	}
	if len(valid) == 0 {
		return []*storefront.Product{}, nil
	}

	var records []*storefront.Product
	err := p.db.NewSelect().
		Model(&records).
		Where("id IN (?)", bun.In(valid)).
		Scan(ctx)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	byID := make(map[uuid.UUID]*storefront.Product, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	out := make([]*storefront.Product, 0, len(records))
	for _, id := range valid {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (p *Products) Create(ctx context.Context, product *storefront.Product) (*storefront.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return p.repo.Create(ctx, product)
}
