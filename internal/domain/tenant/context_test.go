package tenant

import (
	"context"
	"strings"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := WithTenant(context.Background(), "t-1")
	if got := FromContext(ctx); got != "t-1" {
		t.Fatalf("expected t-1, got %q", got)
	}
	if got := FromContext(context.Background()); got != "" {
		t.Fatalf("expected empty tenant, got %q", got)
	}
}

func TestValidID(t *testing.T) {
	cases := map[string]bool{
		"0b7c6c1e-4d59-4a43-9d2c-0e6f5b1f7a11": true,
		"acme":                                 true,
		"":                                     false,
		"has space":                            false,
		"dot.ted":                              false,
		"o'brien":                              false,
		"a\\b":                                 false,
		"under_score":                          true,
		strings.Repeat("a", 65):                false,
	}
	for id, want := range cases {
		if got := ValidID(id); got != want {
			t.Fatalf("ValidID(%q) = %v, want %v", id, got, want)
		}
	}
}
