package google

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-storefront"
)

const (
	// DefaultCertsURL is Google's JWKS endpoint for ID token signing keys
	DefaultCertsURL = "https://www.googleapis.com/oauth2/v3/certs"
)

var validIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// Config holds Google ID token verification options.
type Config struct {
	ClientID string
	CertsURL string

	// Keyfunc overrides the JWKS lookup, mostly for tests
	Keyfunc jwt.Keyfunc

	RefreshInterval time.Duration
	Logger          storefront.Logger
}

// Verifier validates Google ID tokens against the published signing keys.
type Verifier struct {
	clientID string
	keyfunc  jwt.Keyfunc
	jwks     *keyfunc.JWKS
	now      func() time.Time
}

var _ storefront.OAuthVerifier = (*Verifier)(nil)

// New creates a verifier. Without a Keyfunc it fetches the JWKS from
// CertsURL and refreshes it in the background until Close.
func New(cfg Config) (*Verifier, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}

	v := &Verifier{
		clientID: cfg.ClientID,
		keyfunc:  cfg.Keyfunc,
		now:      time.Now,
	}

	if v.keyfunc != nil {
		return v, nil
	}

	if cfg.CertsURL == "" {
		cfg.CertsURL = DefaultCertsURL
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = time.Hour
	}

	jwks, err := keyfunc.Get(cfg.CertsURL, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			if cfg.Logger != nil {
				cfg.Logger.Error("failed to refresh google signing keys", "error", err)
			}
		},
		RefreshInterval:   cfg.RefreshInterval,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load google signing keys: %w", err)
	}

	v.jwks = jwks
	v.keyfunc = jwks.Keyfunc
	return v, nil
}

// NewWithKeys creates a verifier that trusts only the given keys
func NewWithKeys(clientID string, keys map[string]keyfunc.GivenKey) (*Verifier, error) {
	return New(Config{
		ClientID: clientID,
		Keyfunc:  keyfunc.NewGiven(keys).Keyfunc,
	})
}

// WithClock replaces the time source used for exp checks
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	if now != nil {
		v.now = now
	}
	return v
}

// Verify checks signature, audience, issuer and expiry and returns the
// identity claims. email_verified is reported, not enforced.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*storefront.OAuthClaims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims := &idTokenClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, v.keyfunc,
		jwt.WithAudience(v.clientID),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, invalidToken(err)
	}

	if !token.Valid {
		return nil, ErrInvalidIDToken
	}

	if !validIssuer(claims.Issuer) {
		return nil, ErrInvalidIssuer.Clone().
			WithMetadata(map[string]any{"issuer": claims.Issuer})
	}

	return claims.toOAuthClaims(), nil
}

// Close stops the background JWKS refresh
func (v *Verifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func validIssuer(iss string) bool {
	for _, valid := range validIssuers {
		if iss == valid {
			return true
		}
	}
	return false
}
