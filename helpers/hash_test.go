package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestKey(t *testing.T) {

	d1 := DigestKey("reddit:abc9x")
	d2 := DigestKey("reddit:abc9x")
	d3 := DigestKey("twitter:abc9x")

	// stable for the same input, distinct across providers
	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)

	// hex-encoded sha3-256
	assert.Len(t, d1, 64)
	assert.NotContains(t, d1, "abc9x")
}
