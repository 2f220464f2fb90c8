package storefront_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront"
)

func newTokenService(now time.Time) *storefront.TokenServiceImpl {
	return storefront.NewTokenService(testOptions, newQuietLogger()).
		WithClock(func() time.Time { return now })
}

func testUser(role storefront.UserRole) *storefront.User {
	return &storefront.User{
		ID:    uuid.New(),
		Name:  "Jane",
		Email: "jane@example.com",
		Role:  role,
	}
}

func TestNewTokenService_Defaults(t *testing.T) {
	ts := storefront.NewTokenService(storefront.Options{SigningKey: "k"}, nil)

	assert.Equal(t, storefront.DefaultAccessTokenTTL, ts.TTL(storefront.TokenKindAccess))
	assert.Equal(t, storefront.DefaultRefreshTokenTTL, ts.TTL(storefront.TokenKindRefresh))
	assert.Equal(t, 5*time.Minute, ts.TTL(storefront.TokenKindActivation))
	assert.Equal(t, 15*time.Minute, ts.TTL(storefront.TokenKindReset))
}

func TestTokenService_AccessToken(t *testing.T) {
	now := time.Now()
	ts := newTokenService(now)
	user := testUser(storefront.RoleAdmin)

	token, err := ts.IssueAccessToken(storefront.NewIdentityFromUser(user))
	require.NoError(t, err)

	claims, err := ts.Verify(token, storefront.TokenKindAccess)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.UserID())
	assert.Equal(t, user.ID.String(), claims.Subject())
	assert.Equal(t, "admin", claims.Role())
	assert.Equal(t, "jane@example.com", claims.Email())
	assert.Equal(t, storefront.TokenKindAccess, claims.Kind())
	assert.True(t, claims.IsAtLeast("customer"))
	assert.WithinDuration(t, now.Add(15*time.Minute), claims.Expires(), time.Second)
	assert.WithinDuration(t, now, claims.IssuedAt(), time.Second)
}

func TestTokenService_KindIsEnforced(t *testing.T) {
	ts := newTokenService(time.Now())
	identity := storefront.NewIdentityFromUser(testUser(storefront.RoleCustomer))

	pair, err := ts.IssueTokenPair(identity)
	require.NoError(t, err)
	activation, err := ts.IssueActivationToken(storefront.PendingRegistration{Email: "a@b.co", PasswordHash: "h"})
	require.NoError(t, err)
	reset, err := ts.IssueResetToken("a@b.co")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		kind  storefront.TokenKind
		ok    bool
	}{
		{"access as access", pair.AccessToken, storefront.TokenKindAccess, true},
		{"refresh as refresh", pair.RefreshToken, storefront.TokenKindRefresh, true},
		{"activation as activation", activation, storefront.TokenKindActivation, true},
		{"reset as reset", reset, storefront.TokenKindReset, true},
		{"refresh as access", pair.RefreshToken, storefront.TokenKindAccess, false},
		{"access as refresh", pair.AccessToken, storefront.TokenKindRefresh, false},
		{"activation as access", activation, storefront.TokenKindAccess, false},
		{"reset as activation", reset, storefront.TokenKindActivation, false},
		{"activation as reset", activation, storefront.TokenKindReset, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.Verify(tt.token, tt.kind)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, storefront.TextCodeTokenInvalid, textCode(err))
		})
	}
}

func TestTokenService_ActivationCarriesPending(t *testing.T) {
	ts := newTokenService(time.Now())
	pending := storefront.PendingRegistration{Name: "Jane", Email: "jane@example.com", PasswordHash: "hash"}

	token, err := ts.IssueActivationToken(pending)
	require.NoError(t, err)

	claims, err := ts.Verify(token, storefront.TokenKindActivation)
	require.NoError(t, err)
	require.NotNil(t, claims.Pending)
	assert.Equal(t, pending, *claims.Pending)
}

func TestTokenService_Expired(t *testing.T) {
	issuedAt := time.Now()
	issuer := newTokenService(issuedAt)

	token, err := issuer.IssueActivationToken(storefront.PendingRegistration{Email: "a@b.co", PasswordHash: "h"})
	require.NoError(t, err)

	later := newTokenService(issuedAt.Add(6 * time.Minute))
	_, err = later.Verify(token, storefront.TokenKindActivation)
	require.Error(t, err)
	assert.True(t, storefront.IsTokenExpiredError(err))
	assert.Equal(t, storefront.TextCodeTokenExpired, textCode(err))
}

func TestTokenService_RejectsForeignSignatures(t *testing.T) {
	ts := newTokenService(time.Now())

	other := storefront.NewTokenService(storefront.Options{
		SigningKey: "someone-else",
		Issuer:     testOptions.Issuer,
	}, nil)
	token, err := other.IssueAccessToken(storefront.NewIdentityFromUser(testUser(storefront.RoleAdmin)))
	require.NoError(t, err)

	_, err = ts.Verify(token, storefront.TokenKindAccess)
	assert.Equal(t, storefront.TextCodeTokenInvalid, textCode(err))

	_, err = ts.Verify("not-a-jwt", storefront.TokenKindAccess)
	assert.Equal(t, storefront.TextCodeTokenInvalid, textCode(err))
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	ts := newTokenService(time.Now())

	claims := &storefront.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testOptions.Issuer,
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserRole:  "admin",
		TokenKind: storefront.TokenKindAccess,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Verify(token, storefront.TokenKindAccess)
	assert.Error(t, err)
}

func TestTokenService_ResetUsesActivationSecret(t *testing.T) {
	ts := newTokenService(time.Now())
	token, err := ts.IssueResetToken("jane@example.com")
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(token, &storefront.JWTClaims{}, func(*jwt.Token) (any, error) {
		return []byte(testOptions.ActivationSigningKey), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", parsed.Claims.(*storefront.JWTClaims).Email())
}

func TestTokenService_NilIdentity(t *testing.T) {
	ts := newTokenService(time.Now())

	_, err := ts.IssueAccessToken(nil)
	assert.Error(t, err)

	_, err = ts.IssueTokenPair(nil)
	assert.Error(t, err)
}

func TestTokenService_Audience(t *testing.T) {
	opts := testOptions
	opts.Audience = []string{"storefront-api", "storefront-admin"}
	ts := storefront.NewTokenService(opts, nil)
	identity := storefront.NewIdentityFromUser(testUser(storefront.RoleCustomer))

	token, err := ts.IssueAccessToken(identity)
	require.NoError(t, err)

	claims, err := ts.Verify(token, storefront.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, jwt.ClaimStrings{"storefront-api", "storefront-admin"}, claims.Audience)

	other := opts
	other.Audience = []string{"billing-api"}
	foreign, err := storefront.NewTokenService(other, nil).IssueAccessToken(identity)
	require.NoError(t, err)
	_, err = ts.Verify(foreign, storefront.TokenKindAccess)
	assert.Equal(t, storefront.TextCodeTokenInvalid, textCode(err))

	// tokens minted without an audience are rejected once one is configured
	untargeted, err := storefront.NewTokenService(testOptions, nil).IssueAccessToken(identity)
	require.NoError(t, err)
	_, err = ts.Verify(untargeted, storefront.TokenKindAccess)
	assert.Equal(t, storefront.TextCodeTokenInvalid, textCode(err))
}
