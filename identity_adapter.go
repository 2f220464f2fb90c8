package storefront

// UserIdentity is the snapshot of a User that ends up in issued tokens.
// Accounts stored without a role are treated as customers.
type UserIdentity struct {
	id    string
	email string
	role  UserRole
}

// NewIdentityFromUser returns an Identity for the provided user
func NewIdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}

	role := user.Role
	if !role.IsValid() {
		role = RoleCustomer
	}

	return UserIdentity{
		id:    user.ID.String(),
		email: NormalizeEmail(user.Email),
		role:  role,
	}
}

func (u UserIdentity) ID() string    { return u.id }
func (u UserIdentity) Email() string { return u.email }
func (u UserIdentity) Role() string  { return string(u.role) }

// claimsIdentity re-issues tokens for the identity recorded in claims
type claimsIdentity struct {
	claims *JWTClaims
}

func (c claimsIdentity) ID() string    { return c.claims.UserID() }
func (c claimsIdentity) Email() string { return c.claims.Email() }
func (c claimsIdentity) Role() string  { return c.claims.Role() }
