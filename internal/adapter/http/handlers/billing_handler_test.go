package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"saas_billing/internal/adapter/http/handlers/mocks"
	"saas_billing/internal/adapter/http/middleware"
	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase"
	"saas_billing/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

const testTenant = "7d8a4b52-6c1e-4f0e-9b7a-1f2c3d4e5f60"

func newBillingRouter(h *BillingHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/v1/billing", middleware.Tenant())
	g.POST("/checkout", h.CreateCheckout)
	g.GET("/subscription", h.GetSubscription)
	g.DELETE("/subscription", h.CancelSubscription)
	g.POST("/payment-methods/:id/charge", h.ChargePaymentMethod)
	g.DELETE("/payment-methods/:id", h.RemovePaymentMethod)
	g.GET("/portal", h.GetPortalURL)
	r.GET("/v1/billing/plans", h.ListPlans)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", testTenant)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBillingHandler_CreateCheckout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validBody := `{"planId":"PRO","successUrl":"https://app.example.cl/ok","cancelUrl":"https://app.example.cl/cancel"}`

	t.Run("invalid payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingUseCase(ctrl)
		r := newBillingRouter(NewBillingHandler(uc, nil))

		w := doJSON(r, http.MethodPost, "/v1/billing/checkout", `{"planId":"PRO","successUrl":"not a url","cancelUrl":"x"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("missing tenant", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r := newBillingRouter(NewBillingHandler(mocks.NewMockIBillingUseCase(ctrl), nil))

		req := httptest.NewRequest(http.MethodPost, "/v1/billing/checkout", bytes.NewBufferString(validBody))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	errCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"contact sales", entities.ErrContactSales, http.StatusPaymentRequired, "CONTACT_SALES"},
		{"unknown plan", entities.ErrUnknownPlan, http.StatusBadRequest, "UNKNOWN_PLAN"},
		{"not configured", entities.NotConfigured(entities.ProviderFlow), http.StatusNotFound, "PROVIDER_NOT_CONFIGURED"},
		{"no provider", entities.ErrNoProviderConfigured, http.StatusServiceUnavailable, "NO_PROVIDER_CONFIGURED"},
		{"gateway", entities.NewGatewayError(entities.ProviderStripe, "checkout.create", errors.New("api key sk_live_x invalid")), http.StatusBadGateway, "PAYMENT_PROVIDER_ERROR"},
		{"configuration", entities.ConfigurationErrorf("missing price"), http.StatusInternalServerError, "PROVIDER_MISCONFIGURED"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockIBillingUseCase(ctrl)
			r := newBillingRouter(NewBillingHandler(uc, nil))

			uc.EXPECT().CreateCheckout(gomock.Any(), testTenant, gomock.Any()).Return(entities.CheckoutSession{}, tc.err)

			w := doJSON(r, http.MethodPost, "/v1/billing/checkout", validBody)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			var body pkg.HTTPError
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Code != tc.code {
				t.Fatalf("expected code %s, got %s (%v)", tc.code, w.Body.String(), err)
			}
			if bytes.Contains(w.Body.Bytes(), []byte("sk_live")) {
				t.Fatalf("upstream detail leaked: %s", w.Body.String())
			}
		})
	}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingUseCase(ctrl)
		r := newBillingRouter(NewBillingHandler(uc, nil))

		uc.EXPECT().CreateCheckout(gomock.Any(), testTenant, gomock.Any()).DoAndReturn(
			func(_ interface{}, _ string, in usecase.CheckoutInput) (entities.CheckoutSession, error) {
				if in.PlanID != "PRO" || in.Options.SuccessURL != "https://app.example.cl/ok" {
					t.Fatalf("unexpected input: %+v", in)
				}
				return entities.CheckoutSession{SessionID: "cs_1", CheckoutURL: "https://checkout.stripe.com/c/pay/cs_1", PlanID: entities.PlanPro, Provider: entities.ProviderStripe}, nil
			})

		w := doJSON(r, http.MethodPost, "/v1/billing/checkout", validBody)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["checkoutUrl"] != "https://checkout.stripe.com/c/pay/cs_1" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestBillingHandler_Subscription(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingUseCase(ctrl)
		r := newBillingRouter(NewBillingHandler(uc, nil))

		uc.EXPECT().GetSubscription(gomock.Any(), testTenant).Return(entities.Subscription{}, entities.ErrSubscriptionNotFound)
		if w := doJSON(r, http.MethodGet, "/v1/billing/subscription", ""); w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("cancel unsupported", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingUseCase(ctrl)
		r := newBillingRouter(NewBillingHandler(uc, nil))

		uc.EXPECT().CancelSubscription(gomock.Any(), testTenant).Return(entities.Subscription{}, entities.UnsupportedOperation(entities.ProviderFlow, "cancel"))
		if w := doJSON(r, http.MethodDelete, "/v1/billing/subscription", ""); w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
	})

	t.Run("cancel success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingUseCase(ctrl)
		r := newBillingRouter(NewBillingHandler(uc, nil))

		uc.EXPECT().CancelSubscription(gomock.Any(), testTenant).Return(entities.Subscription{ID: "s1", Status: entities.SubscriptionStatusCanceled}, nil)
		w := doJSON(r, http.MethodDelete, "/v1/billing/subscription", "")
		if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"status":"canceled"`)) {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})
}

func TestBillingHandler_PaymentMethods(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("charge", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingUseCase(ctrl)
		r := newBillingRouter(NewBillingHandler(uc, nil))

		uc.EXPECT().ChargePaymentMethod(gomock.Any(), testTenant, "pm-1", "BUSINESS").Return(entities.Payment{ID: "p1", Amount: 79000, Status: entities.PaymentStatusApproved}, nil)
		w := doJSON(r, http.MethodPost, "/v1/billing/payment-methods/pm-1/charge", `{"planId":"BUSINESS"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("remove missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingUseCase(ctrl)
		r := newBillingRouter(NewBillingHandler(uc, nil))

		uc.EXPECT().RemovePaymentMethod(gomock.Any(), testTenant, "pm-9").Return(entities.ErrPaymentMethodNotFound)
		if w := doJSON(r, http.MethodDelete, "/v1/billing/payment-methods/pm-9", ""); w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("remove", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingUseCase(ctrl)
		r := newBillingRouter(NewBillingHandler(uc, nil))

		uc.EXPECT().RemovePaymentMethod(gomock.Any(), testTenant, "pm-1").Return(nil)
		if w := doJSON(r, http.MethodDelete, "/v1/billing/payment-methods/pm-1", ""); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})
}

func TestBillingHandler_PlansAndPortal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIBillingUseCase(ctrl)
	r := newBillingRouter(NewBillingHandler(uc, nil))

	uc.EXPECT().ListPlans().Return(entities.Plans)
	w := doJSON(r, http.MethodGet, "/v1/billing/plans", "")
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"price":29000`)) {
		t.Fatalf("unexpected plans response %d %s", w.Code, w.Body.String())
	}

	uc.EXPECT().GetPortalURL(gomock.Any(), testTenant).Return("", nil)
	w = doJSON(r, http.MethodGet, "/v1/billing/portal", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"url":""}` {
		t.Fatalf("unexpected portal response %d %s", w.Code, w.Body.String())
	}
}
