// Package service contains the application use cases of the marketplace:
// registration and login, the provider job ledger, the public catalog,
// review submission and the provider and client self-care operations.
//
// Services depend on the store interfaces (internal/store) and never on a
// concrete storage backend. Each constructor validates its dependencies and
// returns an error when a required one is missing.
//
// Error handling:
//   - Expected conditions are reported through sentinel errors: the store's
//     not-found and duplicate errors, the domain's validation errors and
//     ErrInvalidCredentials, all passed through unwrapped or wrapped with %w
//   - Unexpected failures are wrapped in a ServiceError naming the operation
//   - The API layer maps errors to HTTP statuses with errors.Is
package service
