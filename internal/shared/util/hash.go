package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey derives the per-user storage prefix from a user id. Truncated
// to 128 bits; the prefix namespaces uploads, it is not a credential.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}
