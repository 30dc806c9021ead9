// Package user defines the user model used throughout the application,
// particularly for authentication and ownership of stored content.
package user

// User represents a registered account.
// The password is never kept in plaintext; only the bcrypt hash is stored.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string

	// Username is an optional display name.
	Username string

	// Email is the login identifier. It is unique across all users.
	Email string

	// PasswordHash is the one-way hash of the user's password.
	PasswordHash string
}
