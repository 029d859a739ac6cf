package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hmacSHA256Hex signs the concatenation of parts with secret.
func hmacSHA256Hex(secret string, parts ...string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	for _, p := range parts {
		mac.Write([]byte(p))
	}
	return hex.EncodeToString(mac.Sum(nil))
}

// signaturesEqual compares hex signatures in constant time.
func signaturesEqual(expected, provided string) bool {
	provided = strings.ToLower(strings.TrimSpace(provided))
	if provided == "" {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(provided))
}
