package storefront

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. PasswordHash never leaves the process,
// use Profile for anything sent over the wire.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Email         string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          UserRole   `bun:"user_role,notnull" json:"role"`
	Avatar        string     `bun:"avatar" json:"avatar,omitempty"`
	Sex           string     `bun:"sex" json:"sex,omitempty"`
	Address       string     `bun:"address" json:"address,omitempty"`
	PaymentMethod string     `bun:"payment_method" json:"payment_method,omitempty"`
	Wishlist      []string   `bun:"-" json:"wishlist,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Profile is the outward projection of a User
type Profile struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          UserRole   `json:"role"`
	Avatar        string     `json:"avatar,omitempty"`
	Sex           string     `json:"sex,omitempty"`
	Address       string     `json:"address,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	Wishlist      []string   `json:"wishlist"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// ToProfile strips sensitive fields from the user
func (u *User) ToProfile() *Profile {
	if u == nil {
		return nil
	}
	wishlist := make([]string, len(u.Wishlist))
	copy(wishlist, u.Wishlist)

	return &Profile{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		Avatar:        u.Avatar,
		Sex:           u.Sex,
		Address:       u.Address,
		PaymentMethod: u.PaymentMethod,
		Wishlist:      wishlist,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// PendingRegistration is the account that travels inside an activation
// token until the email owner confirms it.
type PendingRegistration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// Coupon is a percentage discount valid until Expiry
type Coupon struct {
	bun.BaseModel `bun:"table:coupons,alias:cpn"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Name          string     `bun:"name,notnull,unique" json:"name"`
	Discount      float64    `bun:"discount,notnull" json:"discount"`
	Expiry        time.Time  `bun:"expiry,notnull" json:"expiry"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the coupon expiry is strictly before now
func (c *Coupon) Expired(now time.Time) bool {
	return c.Expiry.Before(now)
}

// CartItem is a product line in a cart
type CartItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Cart is the single cart owned by a user
type Cart struct {
	bun.BaseModel      `bun:"table:carts,alias:crt"`
	ID                 uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	OrderBy            uuid.UUID  `bun:"order_by,notnull,unique,type:uuid" json:"orderBy"`
	Products           []CartItem `bun:"products" json:"products"`
	CartTotal          float64    `bun:"cart_total" json:"cartTotal"`
	TotalAfterDiscount float64    `bun:"total_after_discount" json:"totalAfterDiscount"`
	CreatedAt          *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// Product is the catalog entry referenced by carts and wishlists
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Price         float64   `bun:"price" json:"price"`
	Image         string    `bun:"image" json:"image,omitempty"`
}

// TokenPair is the access and refresh token returned on login
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCouponName coupons are matched upper-cased
func NormalizeCouponName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// ApplyDiscount returns total reduced by discount percent, rounded to 2 decimals
func ApplyDiscount(total, discount float64) float64 {
	v := total - total*discount/100
	return math.Round(v*100) / 100
}
