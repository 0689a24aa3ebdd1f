package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short, non-reversible cache key for a raw token.
// Raw tokens are never used as storage keys.
func Fingerprint(rawToken string) string {
	hash := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(hash[:16])
}
