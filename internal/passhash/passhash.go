// Package passhash wraps bcrypt hashing and verification of user passwords.
package passhash

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor. The value is deliberately kept at the
// historical value used by the previous deployment so existing hashes stay
// comparable; it is below bcrypt.DefaultCost and should be raised together
// with a rehash-on-login migration.
const Cost = 5

// maxPasswordBytes is bcrypt's key-size limit. Passwords beyond it are
// truncated before hashing and verification, as the previous deployment
// did, so every password the API accepts can be hashed.
const maxPasswordBytes = 72

// Hash returns the bcrypt hash of the given plaintext password.
// Only the first 72 bytes of the password are significant.
func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(bcryptKey(plaintext), Cost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored bcrypt hash.
// It returns false for any mismatch, including a malformed stored hash.
func Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), bcryptKey(plaintext)) == nil
}

func bcryptKey(plaintext string) []byte {
	key := []byte(plaintext)
	if len(key) > maxPasswordBytes {
		key = key[:maxPasswordBytes]
	}

	return key
}
