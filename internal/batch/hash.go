package batch

import (
	"crypto/sha256"
	"encoding/hex"
)

// contentHash computes a SHA-256 hash of source content, used as the
// output cache key so identical sources never recompile.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
