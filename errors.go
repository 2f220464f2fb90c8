package storefront

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeDuplicateAccount   = "DUPLICATE_ACCOUNT"
	TextCodeWeakPassword       = "WEAK_PASSWORD"
	TextCodeMissingPassword    = "MISSING_PASSWORD"
	TextCodeNotFound           = "NOT_FOUND"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeTokenInvalid       = "TOKEN_INVALID"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeEmailUnverified    = "EMAIL_UNVERIFIED"
	TextCodeInvalidCoupon      = "INVALID_COUPON"
	TextCodeDuplicateCoupon    = "DUPLICATE_COUPON"
	TextCodeValidation         = "VALIDATION_ERROR"
	TextCodeForbidden          = "FORBIDDEN"
)

// ErrDuplicateAccount is returned when the email is already registered
var ErrDuplicateAccount = goerrors.New("User already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateAccount).
	WithCode(goerrors.CodeBadRequest)

// ErrWeakPassword password shorter than MinPasswordLength
var ErrWeakPassword = goerrors.New("Password is at least 6 characters long.", goerrors.CategoryValidation).
	WithTextCode(TextCodeWeakPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrMissingPassword the password field was empty
var ErrMissingPassword = goerrors.New("Please enter your password", goerrors.CategoryValidation).
	WithTextCode(TextCodeMissingPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrUserNotFound no account matches the given email or id
var ErrUserNotFound = goerrors.New("User does not exist", goerrors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(goerrors.CodeBadRequest)

// ErrCartNotFound the user has no cart to apply a coupon to
var ErrCartNotFound = goerrors.New("Cart does not exist", goerrors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(goerrors.CodeBadRequest)

// ErrRecordNotFound is the generic store miss
var ErrRecordNotFound = goerrors.New("record not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrInvalidCredential the password does not match the stored hash
var ErrInvalidCredential = goerrors.New("Invalid password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeBadRequest)

// ErrTokenInvalid bad signature, malformed token or wrong token kind
var ErrTokenInvalid = goerrors.New("Invalid authentication token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(goerrors.CodeBadRequest)

// ErrTokenExpired the token was valid but its exp is in the past
var ErrTokenExpired = goerrors.New("Authentication token expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeBadRequest)

// ErrEmailUnverified the OAuth provider reports an unverified email
var ErrEmailUnverified = goerrors.New("Email verification failed.", goerrors.CategoryAuth).
	WithTextCode(TextCodeEmailUnverified).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidCoupon unknown or expired coupon
var ErrInvalidCoupon = goerrors.New("Invalid coupon", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidCoupon).
	WithCode(goerrors.CodeBadRequest)

// ErrDuplicateCoupon a coupon with the same name exists
var ErrDuplicateCoupon = goerrors.New("Coupon already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateCoupon).
	WithCode(goerrors.CodeBadRequest)

// ErrForbidden the caller role is not allowed to perform the action
var ErrForbidden = goerrors.New("Insufficient permissions", goerrors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(goerrors.CodeForbidden)

// ErrGoogleLoginSecretMissing google accounts can not be provisioned without a login secret
var ErrGoogleLoginSecretMissing = goerrors.New("google login secret is not configured", goerrors.CategoryInternal).
	WithCode(goerrors.CodeInternal)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password can not be empty")

// ErrMismatchedHashAndPassword is returned by ComparePasswordAndHash
var ErrMismatchedHashAndPassword = errors.New("hashed password does not match the given password")

// ErrMissingSubject the token has no subject to resolve a user from
var ErrMissingSubject = errors.New("token has no subject")

// IsNotFound reports whether err is a store or lookup miss
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == goerrors.CategoryNotFound
	}
	return false
}

// IsDuplicateAccount reports whether err is an email uniqueness conflict
func IsDuplicateAccount(err error) bool {
	return hasTextCode(err, TextCodeDuplicateAccount)
}

// IsDuplicateCoupon reports whether err is a coupon name conflict
func IsDuplicateCoupon(err error) bool {
	return hasTextCode(err, TextCodeDuplicateCoupon)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// validationError wraps an ozzo validation failure as a rich error
func validationError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, msg).
		WithTextCode(TextCodeValidation).
		WithCode(goerrors.CodeBadRequest)
}

// internalError wraps unexpected store, mail or signing faults
func internalError(err error, msg string) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithCode(goerrors.CodeInternal)
}
