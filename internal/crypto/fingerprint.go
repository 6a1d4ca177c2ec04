package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Digest returns the hex BLAKE2b-256 digest of payload.
func Digest(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns a short form of a hex digest for display/logging.
//
// It truncates to 20 hex chars (10 bytes).
func Fingerprint(digest string) string {
	if len(digest) <= 20 {
		return digest
	}
	return digest[:20]
}
