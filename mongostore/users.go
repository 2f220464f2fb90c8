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

// Users implements storefront.Users
type Users struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*storefront.User, error) {
	email = storefront.NormalizeEmail(email)
	return u.findOne(ctx, bson.M{"email": email}, map[string]any{"email": email})
}

func (u *Users) GetByID(ctx context.Context, id string) (*storefront.User, error) {
	return u.findOne(ctx, bson.M{"_id": id}, map[string]any{"id": id})
}

func (u *Users) Create(ctx context.Context, user *storefront.User) (*storefront.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	doc := userToDocument(user, u.now().UTC())

	if _, err := u.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err, storefront.ErrDuplicateAccount, map[string]any{"email": doc.Email})
	}
	return doc.toUser(), nil
}

func (u *Users) UpdatePassword(ctx context.Context, id, passwordHash string) (*storefront.User, error) {
	return u.set(ctx, id, bson.M{"password_hash": passwordHash})
}

func (u *Users) UpdateProfile(ctx context.Context, id, name, sex string) (*storefront.User, error) {
	return u.set(ctx, id, bson.M{"name": name, "sex": sex})
}

func (u *Users) UpdateAvatar(ctx context.Context, id, avatar string) (*storefront.User, error) {
	return u.set(ctx, id, bson.M{"avatar": avatar})
}

func (u *Users) SaveAddress(ctx context.Context, id, address, paymentMethod string) (*storefront.User, error) {
	return u.set(ctx, id, bson.M{"address": address, "payment_method": paymentMethod})
}

func (u *Users) AddToWishlist(ctx context.Context, id, productID string) error {
	_, err := u.update(ctx, id, bson.M{"$addToSet": bson.M{"wishlist": productID}})
	return err
}

func (u *Users) RemoveFromWishlist(ctx context.Context, id, productID string) error {
	_, err := u.update(ctx, id, bson.M{"$pull": bson.M{"wishlist": productID}})
	return err
}

func (u *Users) set(ctx context.Context, id string, fields bson.M) (*storefront.User, error) {
	return u.update(ctx, id, bson.M{"$set": fields})
}

func (u *Users) update(ctx context.Context, id string, update bson.M) (*storefront.User, error) {
	stamp := bson.M{"updated_at": u.now().UTC()}
	if set, ok := update["$set"].(bson.M); ok {
		for k, v := range stamp {
			set[k] = v
		}
	} else {
		update["$set"] = stamp
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err := u.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if err != nil {
		return nil, mapError(err, nil, map[string]any{"id": id})
	}
	return doc.toUser(), nil
}

func (u *Users) findOne(ctx context.Context, filter bson.M, meta map[string]any) (*storefront.User, error) {
	var doc userDocument
	if err := u.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err, nil, meta)
	}
	return doc.toUser(), nil
}
