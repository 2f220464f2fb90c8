package storefront

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	DefaultAccessTokenTTL     = 15 * time.Minute
	DefaultRefreshTokenTTL    = 7 * 24 * time.Hour
	DefaultActivationTokenTTL = 5 * time.Minute
	DefaultResetTokenTTL      = 15 * time.Minute
)

// TokenService issues and verifies kind tagged tokens
type TokenService interface {
	IssueActivationToken(pending PendingRegistration) (string, error)
	IssueAccessToken(identity Identity) (string, error)
	IssueRefreshToken(identity Identity) (string, error)
	IssueResetToken(email string) (string, error)
	IssueTokenPair(identity Identity) (*TokenPair, error)
	Verify(tokenString string, kind TokenKind) (*JWTClaims, error)
}

// TokenServiceImpl implements the TokenService interface.
// Activation and reset tokens share the activation secret.
type TokenServiceImpl struct {
	keys     map[TokenKind][]byte
	ttls     map[TokenKind]time.Duration
	issuer   string
	audience jwt.ClaimStrings
	logger   Logger
	now      func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// NewTokenService creates a new TokenService instance. Refresh and
// activation secrets fall back to the signing key when empty.
func NewTokenService(cfg Config, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}

	access := []byte(cfg.GetSigningKey())
	refresh := orKey(cfg.GetRefreshSigningKey(), access)
	activation := orKey(cfg.GetActivationSigningKey(), access)

	return &TokenServiceImpl{
		keys: map[TokenKind][]byte{
			TokenKindAccess:     access,
			TokenKindRefresh:    refresh,
			TokenKindActivation: activation,
			TokenKindReset:      activation,
		},
		ttls: map[TokenKind]time.Duration{
			TokenKindAccess:     orTTL(cfg.GetAccessTokenTTL(), DefaultAccessTokenTTL),
			TokenKindRefresh:    orTTL(cfg.GetRefreshTokenTTL(), DefaultRefreshTokenTTL),
			TokenKindActivation: orTTL(cfg.GetActivationTokenTTL(), DefaultActivationTokenTTL),
			TokenKindReset:      orTTL(cfg.GetResetTokenTTL(), DefaultResetTokenTTL),
		},
		issuer:   cfg.GetIssuer(),
		audience: jwt.ClaimStrings(cfg.GetAudience()),
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source used to stamp and check tokens
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

// TTL returns the lifetime of tokens of the given kind
func (ts *TokenServiceImpl) TTL(kind TokenKind) time.Duration {
	return ts.ttls[kind]
}

func (ts *TokenServiceImpl) IssueActivationToken(pending PendingRegistration) (string, error) {
	claims := ts.claims(TokenKindActivation, pending.Email)
	claims.EmailAddress = pending.Email
	claims.Pending = &pending
	return ts.SignClaims(claims)
}

func (ts *TokenServiceImpl) IssueAccessToken(identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity is required", errors.CategoryBadInput)
	}
	return ts.SignClaims(ts.identityClaims(TokenKindAccess, identity))
}

func (ts *TokenServiceImpl) IssueRefreshToken(identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity is required", errors.CategoryBadInput)
	}
	return ts.SignClaims(ts.identityClaims(TokenKindRefresh, identity))
}

func (ts *TokenServiceImpl) IssueResetToken(email string) (string, error) {
	claims := ts.claims(TokenKindReset, email)
	claims.EmailAddress = email
	return ts.SignClaims(claims)
}

func (ts *TokenServiceImpl) IssueTokenPair(identity Identity) (*TokenPair, error) {
	access, err := ts.IssueAccessToken(identity)
	if err != nil {
		return nil, err
	}

	refresh, err := ts.IssueRefreshToken(identity)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// SignClaims signs claims with the secret of their kind
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	key, ok := ts.keys[claims.TokenKind]
	if !ok || len(key) == 0 {
		return "", errors.New("no signing key for token kind", errors.CategoryInternal).
			WithMetadata(map[string]any{"kind": claims.TokenKind})
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Verify parses tokenString with the secret of kind and checks the kind tag.
// Expired tokens return ErrTokenExpired, any other failure ErrTokenInvalid.
func (ts *TokenServiceImpl) Verify(tokenString string, kind TokenKind) (*JWTClaims, error) {
	key, ok := ts.keys[kind]
	if !ok {
		return nil, ErrTokenInvalid
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	// the first configured audience names this service
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Warn("token verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(ErrTokenInvalid.TextCode).
			WithCode(ErrTokenInvalid.Code)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.TokenKind != kind {
		ts.logger.Debug("token kind mismatch", "want", kind, "got", claims.TokenKind)
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (ts *TokenServiceImpl) identityClaims(kind TokenKind, identity Identity) *JWTClaims {
	claims := ts.claims(kind, identity.ID())
	claims.UID = identity.ID()
	claims.UserRole = identity.Role()
	claims.EmailAddress = identity.Email()
	return claims
}

func (ts *TokenServiceImpl) claims(kind TokenKind, subject string) *JWTClaims {
	now := ts.now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	return &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   subject,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttls[kind])),
		},
		TokenKind: kind,
	}
}

func orKey(val string, def []byte) []byte {
	if val == "" {
		return def
	}
	return []byte(val)
}

func orTTL(val, def time.Duration) time.Duration {
	if val <= 0 {
		return def
	}
	return val
}
