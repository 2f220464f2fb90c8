// Package mongostore implements the storefront stores as MongoDB
// collections. Identifiers are UUID strings kept in _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goliatone/go-storefront"
)

const (
	UsersCollection    = "users"
	CouponsCollection  = "coupons"
	CartsCollection    = "carts"
	ProductsCollection = "products"
)

// Store implements storefront.RepositoryManager over a mongo database
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	users    *Users
	coupons  *Coupons
	carts    *Carts
	products *Products
}

var _ storefront.RepositoryManager = (*Store)(nil)

// Connect dials uri, verifies the connection and returns a Store bound to
// database name.
func Connect(ctx context.Context, uri, name string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := New(client.Database(name))
	store.client = client
	return store, nil
}

// New wraps an existing database handle
func New(db *mongo.Database) *Store {
	return &Store{
		db:       db,
		users:    &Users{coll: db.Collection(UsersCollection), now: time.Now},
		coupons:  &Coupons{coll: db.Collection(CouponsCollection), now: time.Now},
		carts:    &Carts{coll: db.Collection(CartsCollection), now: time.Now},
		products: &Products{coll: db.Collection(ProductsCollection)},
	}
}

// EnsureIndexes creates the unique indexes the store relies on for
// email, coupon name and cart owner uniqueness.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string]string{
		UsersCollection:   "email",
		CouponsCollection: "name",
		CartsCollection:   "order_by",
	}

	for collection, field := range indexes {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := s.db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s.%s: %w", collection, field, err)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *Store) Validate() error {
	if s.db == nil {
		return errors.New("mongostore database should be initialized")
	}
	return nil
}

func (s *Store) Users() storefront.Users       { return s.users }
func (s *Store) Coupons() storefront.Coupons   { return s.coupons }
func (s *Store) Carts() storefront.Carts       { return s.carts }
func (s *Store) Products() storefront.Products { return s.products }
