package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"saas_billing/internal/domain/tenant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Tenant())
	r.GET("/x", func(c *gin.Context) {
		fromCtx := tenant.FromContext(c.Request.Context())
		c.String(http.StatusOK, TenantID(c)+"|"+fromCtx)
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusBadRequest, ""},
		{"dot not allowed", "acme.cl", http.StatusBadRequest, ""},
		{"quote not allowed", "acme'cl", http.StatusBadRequest, ""},
		{"valid", "3f0c8a3e-4b7e-4d0a-9e1a-2f6f1c0b9d11", http.StatusOK, "3f0c8a3e-4b7e-4d0a-9e1a-2f6f1c0b9d11|3f0c8a3e-4b7e-4d0a-9e1a-2f6f1c0b9d11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set(tenant.HeaderName, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Fatalf("expected body %q, got %q", tt.body, w.Body.String())
			}
		})
	}
}

func TestRecoveryAndRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(RequestLogger(logger), Recovery(logger))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Fatalf("expected panic to be logged")
	}
	reqLogs := logs.FilterMessage("request").All()
	if len(reqLogs) != 1 || reqLogs[0].Level != zap.ErrorLevel {
		t.Fatalf("expected one error-level request log, got %+v", reqLogs)
	}
}
