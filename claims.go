package storefront

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind tags a token with the single purpose it was minted for
type TokenKind string

const (
	TokenKindAccess     TokenKind = "access"
	TokenKindRefresh    TokenKind = "refresh"
	TokenKindActivation TokenKind = "activation"
	TokenKindReset      TokenKind = "reset"
)

// AuthClaims represents structured JWT claims
type AuthClaims interface {
	Subject() string
	UserID() string
	Role() string
	Email() string
	Kind() TokenKind
	HasRole(role string) bool
	IsAtLeast(minRole string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID          string               `json:"uid,omitempty"`
	UserRole     string               `json:"role,omitempty"`
	EmailAddress string               `json:"email,omitempty"`
	TokenKind    TokenKind            `json:"kind"`
	Pending      *PendingRegistration `json:"pending,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the global role
func (c *JWTClaims) Role() string {
	return c.UserRole
}

func (c *JWTClaims) Email() string {
	return c.EmailAddress
}

func (c *JWTClaims) Kind() TokenKind {
	return c.TokenKind
}

// HasRole checks if the user has a specific role
func (c *JWTClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// IsAtLeast checks if the user's role is at least the minimum required role
func (c *JWTClaims) IsAtLeast(minRole string) bool {
	return UserRole(c.UserRole).IsAtLeast(UserRole(minRole))
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
