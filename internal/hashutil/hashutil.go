package hashutil

import (
	"crypto/sha256"
	"fmt"
)

// IDFromSeed creates a deterministic 7-character hex ID from a seed string.
func IDFromSeed(seed string) string {
	hash := sha256.Sum256([]byte(seed))
	return fmt.Sprintf("%x", hash[:4])[:7]
}

// Fingerprint returns a 12-character hex digest of data, long enough to tell
// catalog revisions apart in the change log.
func Fingerprint(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:6])
}
