package storefront

// TokenValidator validates bearer tokens and extracts claims without tying
// callers to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrTokenInvalid
	}
	return f(tokenString)
}

// NewAccessTokenValidator accepts only access tokens. Refresh, activation
// and reset tokens are rejected as invalid.
func NewAccessTokenValidator(ts TokenService) TokenValidator {
	return TokenValidatorFunc(func(tokenString string) (AuthClaims, error) {
		claims, err := ts.Verify(tokenString, TokenKindAccess)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}
