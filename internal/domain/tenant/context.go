package tenant

import "context"

type contextKey string

const (
	// IDKey is the context key for the tenant id.
	IDKey contextKey = "tenant_id"

	// HeaderName is the HTTP header carrying the tenant id.
	HeaderName = "X-Tenant-ID"

	maxIDLength = 64
)

// FromContext extracts the tenant id from ctx.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(IDKey).(string); ok {
		return v
	}
	return ""
}

// WithTenant returns a context carrying tenantID.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, IDKey, tenantID)
}

// ValidID reports whether id is usable as a tenant id: non-empty, bounded, and
// limited to [A-Za-z0-9_-]. Tenant ids end up in gateway references and search
// queries, so nothing needing quoting is accepted.
func ValidID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
