package services

import (
	"crypto/sha512"
	"encoding/hex"
)

// HashPassword returns the unsalted SHA-512 digest of password as lowercase hex.
// The digest is deterministic so it can be matched in a query.
func HashPassword(password string) string {
	sum := sha512.Sum512([]byte(password))
	return hex.EncodeToString(sum[:])
}
