package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dsexport/internal/crypto"
)

func TestDigest_KnownValue(t *testing.T) {
	// BLAKE2b-256 of the empty input.
	assert.Equal(t,
		"0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		crypto.Digest(nil))
	assert.NotEqual(t, crypto.Digest([]byte("a")), crypto.Digest([]byte("b")))
}

func TestFingerprint(t *testing.T) {
	d := crypto.Digest([]byte("payload"))
	assert.Len(t, crypto.Fingerprint(d), 20)
	assert.Equal(t, d[:20], crypto.Fingerprint(d))
	assert.Equal(t, "abc", crypto.Fingerprint("abc"))
}
