package storefront_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront"
)

func TestAccessTokenValidator(t *testing.T) {
	ts := newTokenService(time.Now())
	validator := storefront.NewAccessTokenValidator(ts)
	identity := storefront.NewIdentityFromUser(testUser(storefront.RoleCustomer))

	pair, err := ts.IssueTokenPair(identity)
	require.NoError(t, err)

	claims, err := validator.Validate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, identity.ID(), claims.UserID())

	_, err = validator.Validate(pair.RefreshToken)
	assert.Error(t, err)
}

func TestTokenValidatorFunc_Nil(t *testing.T) {
	var fn storefront.TokenValidatorFunc
	_, err := fn.Validate("token")
	assert.ErrorIs(t, err, storefront.ErrTokenInvalid)
}
