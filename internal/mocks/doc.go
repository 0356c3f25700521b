// Package mocks provides centralized mock implementations for testing.
//
// The store mocks keep their data in memory and honor the same contracts
// as the Postgres stores: normalized emails, per-role email uniqueness,
// provider-scoped job access and one review per (provider, client) pair.
// Every method can be overridden through its Fn field.
//
// Usage:
//
//	clients := mocks.NewMockClientStore()
//	clients.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
//	    return nil, errors.New("boom")
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
