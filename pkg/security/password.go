// Package security implements the credential digest used by the admin login.
//
// The scheme is an unsalted SHA-256 hex digest. The digest is effectively the
// secret and nothing rate-limits attempts. It is kept because it is the
// persisted credential format this backend inherits: every stored admin row
// (including the seeded default admin) carries such a digest, so a stronger
// KDF cannot be swapped in without re-provisioning all credentials.
package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// HashPassword returns the hex SHA-256 digest of the trimmed password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(password)))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether the password matches the stored digest.
func VerifyPassword(password, digest string) bool {
	computed := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(strings.TrimSpace(digest)))) == 1
}
