package google

import (
	"encoding/json"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-storefront"
)

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email         string   `json:"email"`
	EmailVerified flexBool `json:"email_verified"`
	Name          string   `json:"name"`
	Picture       string   `json:"picture"`
}

func (c *idTokenClaims) toOAuthClaims() *storefront.OAuthClaims {
	return &storefront.OAuthClaims{
		Subject:       c.Subject,
		Email:         c.Email,
		EmailVerified: bool(c.EmailVerified),
		Name:          c.Name,
		Picture:       c.Picture,
	}
}

// flexBool accepts true and "true", Google has emitted both
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b = flexBool(parsed)
	return nil
}
