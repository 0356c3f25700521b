// Package auth issues and validates the HS256 bearer tokens and hashes and
// verifies bcrypt passwords.
package auth
