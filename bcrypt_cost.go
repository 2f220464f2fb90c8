//go:build !race

package storefront

// PasswordHashCost is the bcrypt work factor for stored passwords
const PasswordHashCost = 12

func passwordHashCost() int {
	return PasswordHashCost
}
