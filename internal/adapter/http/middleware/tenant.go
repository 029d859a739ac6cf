package middleware

import (
	"net/http"
	"strings"

	"saas_billing/internal/domain/tenant"
	"saas_billing/pkg"

	"github.com/gin-gonic/gin"
)

var errMissingTenant = pkg.NewDomainErrorSimple("INVALID_TENANT", "A valid X-Tenant-ID header is required", http.StatusBadRequest)

// Tenant requires a valid X-Tenant-ID header and stores it in both the gin
// context and the request context.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(tenant.HeaderName))
		if !tenant.ValidID(id) {
			c.AbortWithStatusJSON(errMissingTenant.HTTPStatus, errMissingTenant.ToHTTPError())
			return
		}
		c.Set(string(tenant.IDKey), id)
		c.Request = c.Request.WithContext(tenant.WithTenant(c.Request.Context(), id))
		c.Next()
	}
}

// TenantID returns the tenant set by Tenant.
func TenantID(c *gin.Context) string {
	return c.GetString(string(tenant.IDKey))
}
