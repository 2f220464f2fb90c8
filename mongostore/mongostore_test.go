package mongostore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/mongostore"
)

// Runs against a live server when STOREFRONT_TEST_MONGO_URI is set
func setupStore(t *testing.T) *mongostore.Store {
	t.Helper()

	uri := os.Getenv("STOREFRONT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("STOREFRONT_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name := "storefront_test_" + uuid.NewString()[:8]
	store, err := mongostore.Connect(ctx, uri, name)
	require.NoError(t, err)
	require.NoError(t, store.EnsureIndexes(ctx))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(ctx)
	})
	return store
}

func TestStore_UsersAndWishlist(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	user, err := store.Users().Create(ctx, &storefront.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = store.Users().Create(ctx, &storefront.User{Name: "Jane", Email: "JANE@example.com", PasswordHash: "h"})
	assert.True(t, storefront.IsDuplicateAccount(err))

	id := user.ID.String()
	require.NoError(t, store.Users().AddToWishlist(ctx, id, "p1"))
	require.NoError(t, store.Users().AddToWishlist(ctx, id, "p1"))

	got, err := store.Users().GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, got.Wishlist)

	require.NoError(t, store.Users().RemoveFromWishlist(ctx, id, "p1"))
	got, err = store.Users().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Wishlist)

	_, err = store.Users().UpdatePassword(ctx, uuid.NewString(), "x")
	assert.True(t, storefront.IsNotFound(err))
}

func TestStore_CouponAndCart(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Coupons().Create(ctx, &storefront.Coupon{Name: "save10", Discount: 10, Expiry: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	_, err = store.Coupons().Create(ctx, &storefront.Coupon{Name: "SAVE10", Discount: 10, Expiry: time.Now().Add(time.Hour)})
	assert.True(t, storefront.IsDuplicateCoupon(err))

	owner := uuid.New()
	cart, err := store.Carts().Save(ctx, &storefront.Cart{OrderBy: owner, CartTotal: 100})
	require.NoError(t, err)
	require.NoError(t, store.Carts().SetTotalAfterDiscount(ctx, cart.ID.String(), 90))

	got, err := store.Carts().GetByOwner(ctx, owner.String())
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.TotalAfterDiscount)
}
