package fetch

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the SHA-256 hash of the given payload as a lowercase hex
// string. It is the key used for duplicate detection within a session.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
