//go:build race

package storefront

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost is the bcrypt work factor for stored passwords
const PasswordHashCost = bcrypt.MinCost

func passwordHashCost() int {
	// Reduce cost for race-enabled builds so test suites can run with strict timeouts.
	return PasswordHashCost
}
