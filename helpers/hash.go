package helpers

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// DigestKey produces a stable, opaque digest of an identifier.
// Voter keys may fall back to e-mail addresses, so the raw value is never
// written to the votes collection - only this digest is.
func DigestKey(key string) string {
	sum := sha3.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
