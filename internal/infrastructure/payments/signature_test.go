package payments

import (
	"strings"
	"testing"
)

func TestSignaturesEqual(t *testing.T) {
	sig := hmacSHA256Hex("secret", `{"a":1}`, "1700000000")

	if !signaturesEqual(sig, sig) {
		t.Fatalf("expected identical signatures to match")
	}
	if !signaturesEqual(sig, strings.ToUpper(sig)) {
		t.Fatalf("expected hex comparison to ignore case")
	}
	if signaturesEqual(sig, "") {
		t.Fatalf("expected empty signature to fail")
	}

	tampered := []byte(sig)
	tampered[len(tampered)-1] ^= 1
	if signaturesEqual(sig, string(tampered)) {
		t.Fatalf("expected tampered signature to fail")
	}
	if signaturesEqual(sig, sig[:10]) {
		t.Fatalf("expected truncated signature to fail")
	}
}

func TestHMACConcatenatesParts(t *testing.T) {
	if hmacSHA256Hex("k", "ab", "c") != hmacSHA256Hex("k", "abc") {
		t.Fatalf("expected parts to be concatenated")
	}
}
