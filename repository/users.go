package repository

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront"
)

// WishlistItem is one product saved by a user. The (user_id, product_id)
// pair is unique so adds are idempotent.
type WishlistItem struct {
	bun.BaseModel `bun:"table:wishlist_items,alias:wsh"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid,unique:wishlist_user_product"`
	ProductID     string     `bun:"product_id,notnull,unique:wishlist_user_product"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// Users implements storefront.Users
type Users struct {
	repo repository.Repository[*storefront.User]
	db   *bun.DB
	now  func() time.Time
}

var _ storefront.Users = (*Users)(nil)

func NewUsersRepository(db *bun.DB) *Users {
	repo := repository.NewRepository[*storefront.User](db, repository.ModelHandlers[*storefront.User]{
		NewRecord: func() *storefront.User { return &storefront.User{} },
		GetID: func(u *storefront.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *storefront.User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &Users{
		repo: repo,
		db:   db,
		now:  time.Now,
	}
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*storefront.User, error) {
	email = storefront.NormalizeEmail(email)
	meta := map[string]any{"email": email}
	if email == "" {
		return nil, notFound(meta)
	}

	user, err := u.repo.GetByIdentifier(ctx, email)
	if err != nil {
		return nil, mapError(err, nil, meta)
	}
	return u.withWishlist(ctx, user)
}

func (u *Users) GetByID(ctx context.Context, id string) (*storefront.User, error) {
	meta := map[string]any{"id": id}
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound(meta)
	}

	user, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, nil, meta)
	}
	return u.withWishlist(ctx, user)
}

func (u *Users) Create(ctx context.Context, user *storefront.User) (*storefront.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = storefront.RoleCustomer
	}
	user.Email = storefront.NormalizeEmail(user.Email)

	created, err := u.repo.Create(ctx, user)
	if err != nil {
		return nil, mapError(err, storefront.ErrDuplicateAccount, map[string]any{
			"email": user.Email,
		})
	}
	created.Wishlist = []string{}
	return created, nil
}

func (u *Users) UpdatePassword(ctx context.Context, id, passwordHash string) (*storefront.User, error) {
	return u.update(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("password_hash = ?", passwordHash)
	})
}

func (u *Users) UpdateProfile(ctx context.Context, id, name, sex string) (*storefront.User, error) {
	return u.update(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("name = ?", name).Set("sex = ?", sex)
	})
}

func (u *Users) UpdateAvatar(ctx context.Context, id, avatar string) (*storefront.User, error) {
	return u.update(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("avatar = ?", avatar)
	})
}

func (u *Users) SaveAddress(ctx context.Context, id, address, paymentMethod string) (*storefront.User, error) {
	return u.update(ctx, id, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("address = ?", address).Set("payment_method = ?", paymentMethod)
	})
}

func (u *Users) AddToWishlist(ctx context.Context, id, productID string) error {
	userID, err := u.ensureUser(ctx, id)
	if err != nil {
		return err
	}

	now := u.now()
	_, err = u.db.NewInsert().
		Model(&WishlistItem{UserID: userID, ProductID: productID, CreatedAt: &now}).
		On("CONFLICT (user_id, product_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (u *Users) RemoveFromWishlist(ctx context.Context, id, productID string) error {
	userID, err := u.ensureUser(ctx, id)
	if err != nil {
		return err
	}

	_, err = u.db.NewDelete().
		Model((*WishlistItem)(nil)).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Exec(ctx)
	return err
}

func (u *Users) update(ctx context.Context, id string, set func(q *bun.UpdateQuery) *bun.UpdateQuery) (*storefront.User, error) {
	meta := map[string]any{"id": id}
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, notFound(meta)
	}

	q := u.db.NewUpdate().
		Model((*storefront.User)(nil)).
		Set("updated_at = ?", u.now()).
		Where("id = ?", userID)

	res, err := set(q).Exec(ctx)
	if err != nil {
		return nil, mapError(err, nil, meta)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, notFound(meta)
	}

	return u.GetByID(ctx, id)
}

func (u *Users) ensureUser(ctx context.Context, id string) (uuid.UUID, error) {
	meta := map[string]any{"id": id}
	userID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, notFound(meta)
	}

	exists, err := u.db.NewSelect().
		Model((*storefront.User)(nil)).
		Where("id = ?", userID).
		Exists(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if !exists {
		return uuid.Nil, notFound(meta)
	}
	return userID, nil
}

func (u *Users) withWishlist(ctx context.Context, user *storefront.User) (*storefront.User, error) {
	var items []WishlistItem
	err := u.db.NewSelect().
		Model(&items).
		Where("user_id = ?", user.ID).
		OrderExpr("created_at ASC, product_id ASC").
		Scan(ctx)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	user.Wishlist = make([]string, 0, len(items))
	for _, item := range items {
		user.Wishlist = append(user.Wishlist, item.ProductID)
	}
	return user, nil
}
