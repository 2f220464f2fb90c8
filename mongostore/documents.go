package mongostore

import (
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront"
)

type userDocument struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Email         string    `bson:"email"`
	PasswordHash  string    `bson:"password_hash"`
	Role          string    `bson:"role"`
	Avatar        string    `bson:"avatar,omitempty"`
	Sex           string    `bson:"sex,omitempty"`
	Address       string    `bson:"address,omitempty"`
	PaymentMethod string    `bson:"payment_method,omitempty"`
	Wishlist      []string  `bson:"wishlist"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func userToDocument(u *storefront.User, now time.Time) userDocument {
	wishlist := u.Wishlist
	if wishlist == nil {
		wishlist = []string{}
	}
	role := string(u.Role)
	if role == "" {
		role = string(storefront.RoleCustomer)
	}
	return userDocument{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         storefront.NormalizeEmail(u.Email),
		PasswordHash:  u.PasswordHash,
		Role:          role,
		Avatar:        u.Avatar,
		Sex:           u.Sex,
		Address:       u.Address,
		PaymentMethod: u.PaymentMethod,
		Wishlist:      wishlist,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (d userDocument) toUser() *storefront.User {
	id, _ := uuid.Parse(d.ID)
	createdAt, updatedAt := d.CreatedAt, d.UpdatedAt
	wishlist := d.Wishlist
	if wishlist == nil {
		wishlist = []string{}
	}
	return &storefront.User{
		ID:            id,
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Role:          storefront.UserRole(d.Role),
		Avatar:        d.Avatar,
		Sex:           d.Sex,
		Address:       d.Address,
		PaymentMethod: d.PaymentMethod,
		Wishlist:      wishlist,
		CreatedAt:     &createdAt,
		UpdatedAt:     &updatedAt,
	}
}

type couponDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Discount  float64   `bson:"discount"`
	Expiry    time.Time `bson:"expiry"`
	CreatedAt time.Time `bson:"created_at"`
}

func couponToDocument(c *storefront.Coupon, now time.Time) couponDocument {
	return couponDocument{
		ID:        c.ID.String(),
		Name:      storefront.NormalizeCouponName(c.Name),
		Discount:  c.Discount,
		Expiry:    c.Expiry.UTC(),
		CreatedAt: now,
	}
}

func (d couponDocument) toCoupon() *storefront.Coupon {
	id, _ := uuid.Parse(d.ID)
	createdAt := d.CreatedAt
	return &storefront.Coupon{
		ID:        id,
		Name:      d.Name,
		Discount:  d.Discount,
		Expiry:    d.Expiry,
		CreatedAt: &createdAt,
	}
}

type cartItemDocument struct {
	ProductID string  `bson:"product"`
	Name      string  `bson:"name,omitempty"`
	Quantity  int     `bson:"quantity"`
	Price     float64 `bson:"price"`
}

type cartDocument struct {
	ID                 string             `bson:"_id"`
	OrderBy            string             `bson:"order_by"`
	Products           []cartItemDocument `bson:"products"`
	CartTotal          float64            `bson:"cart_total"`
	TotalAfterDiscount float64            `bson:"total_after_discount"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

func cartToDocument(c *storefront.Cart, now time.Time) cartDocument {
	items := make([]cartItemDocument, 0, len(c.Products))
	for _, p := range c.Products {
		items = append(items, cartItemDocument(p))
	}
	return cartDocument{
		ID:                 c.ID.String(),
		OrderBy:            c.OrderBy.String(),
		Products:           items,
		CartTotal:          c.CartTotal,
		TotalAfterDiscount: c.TotalAfterDiscount,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (d cartDocument) toCart() *storefront.Cart {
	id, _ := uuid.Parse(d.ID)
	owner, _ := uuid.Parse(d.OrderBy)
	items := make([]storefront.CartItem, 0, len(d.Products))
	for _, p := range d.Products {
		items = append(items, storefront.CartItem(p))
	}
	createdAt, updatedAt := d.CreatedAt, d.UpdatedAt
	return &storefront.Cart{
		ID:                 id,
		OrderBy:            owner,
		Products:           items,
		CartTotal:          d.CartTotal,
		TotalAfterDiscount: d.TotalAfterDiscount,
		CreatedAt:          &createdAt,
		UpdatedAt:          &updatedAt,
	}
}

type productDocument struct {
	ID    string  `bson:"_id"`
	Name  string  `bson:"name"`
	Price float64 `bson:"price"`
	Image string  `bson:"image,omitempty"`
}

func (d productDocument) toProduct() *storefront.Product {
	id, _ := uuid.Parse(d.ID)
	return &storefront.Product{ID: id, Name: d.Name, Price: d.Price, Image: d.Image}
}
