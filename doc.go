// Package storefront implements the account and shopping primitives of a
// small e-commerce backend: email-verified registration, local and Google
// login, access/refresh tokens, password recovery, profile management,
// wishlists and coupon application against a cart.
//
// Accounts:
//   - Registration never writes a record. The pending account (name, email,
//     password hash) travels inside a short lived activation token that is
//     mailed to the user. The record is created when the token comes back.
//   - Every token carries a kind tag (access, refresh, activation, reset) so
//     a token minted for one purpose is rejected everywhere else.
//
// Storage:
//   - Flows depend on the RepositoryManager interface. The repository package
//     provides a Bun/SQL implementation and the mongostore package provides a
//     MongoDB implementation. Both enforce email uniqueness in the store.
//
// Errors:
//   - Every failure the flows return is a *errors.Error from go-errors with a
//     stable TextCode so transports can map them without string matching.
package storefront
