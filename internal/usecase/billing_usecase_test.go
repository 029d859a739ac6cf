package usecase

import (
	"context"
	"errors"
	"testing"

	"saas_billing/internal/domain/entities"
	mock_interfaces "saas_billing/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type oneclickProvider struct {
	*mock_interfaces.MockIPaymentProvider
	*mock_interfaces.MockIOneclickEnroller
}

func (p oneclickProvider) Name() entities.ProviderName {
	return entities.ProviderTransbank
}

func TestBillingUseCase_CreateCheckout_RejectsBeforeAdapter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	// No CreateCheckoutSession expectation: any call fails the test.
	uc := NewBillingUseCase(newServiceWith(newNamedProvider(ctrl, entities.ProviderStripe)), BillingDeps{}, "CL", nil)

	tests := []struct {
		plan string
		want error
	}{
		{"ENTERPRISE", entities.ErrContactSales},
		{"FREE", entities.ErrPlanNotChargeable},
		{"GOLD", entities.ErrUnknownPlan},
	}
	for _, tt := range tests {
		t.Run(tt.plan, func(t *testing.T) {
			_, err := uc.CreateCheckout(context.Background(), "tenant-1", CheckoutInput{PlanID: tt.plan})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("invalid tenant", func(t *testing.T) {
		_, err := uc.CreateCheckout(context.Background(), "a.b", CheckoutInput{PlanID: "PRO"})
		if !errors.Is(err, entities.ErrInvalidTenantID) {
			t.Fatalf("expected ErrInvalidTenantID, got %v", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := uc.CreateCheckout(context.Background(), "tenant-1", CheckoutInput{PlanID: "PRO", Provider: "paypal"})
		if !errors.Is(err, entities.ErrUnknownProvider) {
			t.Fatalf("expected ErrUnknownProvider, got %v", err)
		}
	})

	t.Run("provider not configured", func(t *testing.T) {
		_, err := uc.CreateCheckout(context.Background(), "tenant-1", CheckoutInput{PlanID: "PRO", Provider: "flow"})
		if !errors.Is(err, entities.ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
	})
}

func TestBillingUseCase_CreateCheckout_PreferredProviderAndCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stripe := newNamedProvider(ctrl, entities.ProviderStripe)
	flow := newNamedProvider(ctrl, entities.ProviderFlow)
	store := mock_interfaces.NewMockICheckoutSessionStore(ctrl)
	uc := NewBillingUseCase(newServiceWith(stripe, flow), BillingDeps{Sessions: store}, "CL", nil)

	opts := entities.CheckoutOptions{SuccessURL: "https://app/ok", CancelURL: "https://app/cancel"}
	sess := entities.CheckoutSession{SessionID: "F123", Provider: entities.ProviderFlow, TenantID: "tenant-1", PlanID: entities.PlanPro}

	flow.EXPECT().CreateCheckoutSession(gomock.Any(), entities.PlanPro, "tenant-1", opts).Return(sess, nil)
	store.EXPECT().Save(gomock.Any(), sess).Return(errors.New("redis down"))

	got, err := uc.CreateCheckout(context.Background(), "tenant-1", CheckoutInput{PlanID: "pro", Options: opts})
	if err != nil {
		t.Fatalf("cache failure must not fail checkout: %v", err)
	}
	if got.SessionID != "F123" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestBillingUseCase_GetCheckoutSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_interfaces.NewMockICheckoutSessionStore(ctrl)
	uc := NewBillingUseCase(NewPaymentService(), BillingDeps{Sessions: store}, "CL", nil)

	store.EXPECT().Get(gomock.Any(), "s1").Return(entities.CheckoutSession{SessionID: "s1", TenantID: "other"}, nil)
	if _, err := uc.GetCheckoutSession(context.Background(), "tenant-1", "s1"); !errors.Is(err, entities.ErrCheckoutSessionNotFound) {
		t.Fatalf("expected cross-tenant lookup to be not found, got %v", err)
	}

	noStore := NewBillingUseCase(NewPaymentService(), BillingDeps{}, "CL", nil)
	if _, err := noStore.GetCheckoutSession(context.Background(), "tenant-1", "s1"); !errors.Is(err, entities.ErrCheckoutSessionNotFound) {
		t.Fatalf("expected not found without store, got %v", err)
	}
}

func TestBillingUseCase_GetSubscription(t *testing.T) {
	local := entities.Subscription{
		TenantID:               "tenant-1",
		Provider:               entities.ProviderStripe,
		ProviderSubscriptionID: "sub_1",
		PlanID:                 entities.PlanPro,
		Status:                 entities.SubscriptionStatusActive,
	}

	t.Run("refresh updates local record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		stripe := newNamedProvider(ctrl, entities.ProviderStripe)
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		uc := NewBillingUseCase(newServiceWith(stripe), BillingDeps{Subscriptions: subs}, "CL", nil)

		subs.EXPECT().GetCurrent(gomock.Any(), "tenant-1").Return(local, nil)
		stripe.EXPECT().GetSubscription(gomock.Any(), "sub_1").Return(&entities.Subscription{Status: entities.SubscriptionStatusPastDue}, nil)
		subs.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s entities.Subscription) (entities.Subscription, error) {
			if s.Status != entities.SubscriptionStatusPastDue || s.PlanID != entities.PlanPro {
				t.Fatalf("unexpected upsert: %+v", s)
			}
			return s, nil
		})

		got, err := uc.GetSubscription(context.Background(), "tenant-1")
		if err != nil || got.Status != entities.SubscriptionStatusPastDue {
			t.Fatalf("expected past_due, got %+v %v", got, err)
		}
	})

	t.Run("nil from provider keeps local record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		stripe := newNamedProvider(ctrl, entities.ProviderStripe)
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		uc := NewBillingUseCase(newServiceWith(stripe), BillingDeps{Subscriptions: subs}, "CL", nil)

		subs.EXPECT().GetCurrent(gomock.Any(), "tenant-1").Return(local, nil)
		stripe.EXPECT().GetSubscription(gomock.Any(), "sub_1").Return(nil, nil)

		got, err := uc.GetSubscription(context.Background(), "tenant-1")
		if err != nil || got.Status != entities.SubscriptionStatusActive {
			t.Fatalf("expected local record, got %+v %v", got, err)
		}
	})

	t.Run("refresh error keeps local record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		stripe := newNamedProvider(ctrl, entities.ProviderStripe)
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		uc := NewBillingUseCase(newServiceWith(stripe), BillingDeps{Subscriptions: subs}, "CL", nil)

		subs.EXPECT().GetCurrent(gomock.Any(), "tenant-1").Return(local, nil)
		stripe.EXPECT().GetSubscription(gomock.Any(), "sub_1").Return(nil, entities.NewGatewayError(entities.ProviderStripe, "subscription.get", errors.New("timeout")))

		got, err := uc.GetSubscription(context.Background(), "tenant-1")
		if err != nil || got.ProviderSubscriptionID != "sub_1" {
			t.Fatalf("expected local record, got %+v %v", got, err)
		}
	})

	t.Run("storage not configured", func(t *testing.T) {
		uc := NewBillingUseCase(NewPaymentService(), BillingDeps{}, "CL", nil)
		if _, err := uc.GetSubscription(context.Background(), "tenant-1"); !errors.Is(err, ErrPersistenceNotConfigured) {
			t.Fatalf("expected ErrPersistenceNotConfigured, got %v", err)
		}
	})
}

func TestBillingUseCase_CancelSubscription(t *testing.T) {
	t.Run("cancels upstream then locally", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		stripe := newNamedProvider(ctrl, entities.ProviderStripe)
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		uc := NewBillingUseCase(newServiceWith(stripe), BillingDeps{Subscriptions: subs}, "CL", nil)

		sub := entities.Subscription{TenantID: "tenant-1", Provider: entities.ProviderStripe, ProviderSubscriptionID: "sub_1", Status: entities.SubscriptionStatusActive}
		subs.EXPECT().GetCurrent(gomock.Any(), "tenant-1").Return(sub, nil)
		gomock.InOrder(
			stripe.EXPECT().CancelSubscription(gomock.Any(), "sub_1").Return(nil),
			subs.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s entities.Subscription) (entities.Subscription, error) {
				return s, nil
			}),
		)

		got, err := uc.CancelSubscription(context.Background(), "tenant-1")
		if err != nil || got.Status != entities.SubscriptionStatusCanceled {
			t.Fatalf("expected canceled, got %+v %v", got, err)
		}
	})

	t.Run("upstream failure leaves local record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		stripe := newNamedProvider(ctrl, entities.ProviderStripe)
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		uc := NewBillingUseCase(newServiceWith(stripe), BillingDeps{Subscriptions: subs}, "CL", nil)

		subs.EXPECT().GetCurrent(gomock.Any(), "tenant-1").Return(entities.Subscription{Provider: entities.ProviderStripe, ProviderSubscriptionID: "sub_1", Status: entities.SubscriptionStatusActive}, nil)
		stripe.EXPECT().CancelSubscription(gomock.Any(), "sub_1").Return(entities.NewGatewayError(entities.ProviderStripe, "subscription.cancel", errors.New("500")))

		if _, err := uc.CancelSubscription(context.Background(), "tenant-1"); !errors.Is(err, entities.ErrUpstreamGateway) {
			t.Fatalf("expected ErrUpstreamGateway, got %v", err)
		}
	})

	t.Run("one-off provider cancels locally", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tbk := newNamedProvider(ctrl, entities.ProviderTransbank)
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		uc := NewBillingUseCase(newServiceWith(tbk), BillingDeps{Subscriptions: subs}, "CL", nil)

		subs.EXPECT().GetCurrent(gomock.Any(), "tenant-1").Return(entities.Subscription{Provider: entities.ProviderTransbank, ProviderSubscriptionID: "O1", Status: entities.SubscriptionStatusActive}, nil)
		tbk.EXPECT().CancelSubscription(gomock.Any(), "O1").Return(entities.UnsupportedOperation(entities.ProviderTransbank, "cancelSubscription"))
		subs.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s entities.Subscription) (entities.Subscription, error) {
			return s, nil
		})

		got, err := uc.CancelSubscription(context.Background(), "tenant-1")
		if err != nil || got.Status != entities.SubscriptionStatusCanceled {
			t.Fatalf("expected canceled, got %+v %v", got, err)
		}
	})

	t.Run("already canceled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		uc := NewBillingUseCase(NewPaymentService(), BillingDeps{Subscriptions: subs}, "CL", nil)

		subs.EXPECT().GetCurrent(gomock.Any(), "tenant-1").Return(entities.Subscription{Status: entities.SubscriptionStatusCanceled}, nil)
		if _, err := uc.CancelSubscription(context.Background(), "tenant-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestBillingUseCase_ChargePaymentMethod(t *testing.T) {
	method := entities.PaymentMethod{ID: "pm-1", TenantID: "tenant-1", Type: entities.PaymentMethodOneclick, Provider: entities.ProviderTransbank, ProviderRef: "tbk-user", Username: "tenant-1"}

	t.Run("approved charge activates subscription", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		provider := oneclickProvider{mock_interfaces.NewMockIPaymentProvider(ctrl), mock_interfaces.NewMockIOneclickEnroller(ctrl)}
		methods := mock_interfaces.NewMockIPaymentMethodRepository(ctrl)
		payments := mock_interfaces.NewMockIPaymentRepository(ctrl)
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		uc := NewBillingUseCase(NewPaymentService(provider), BillingDeps{Subscriptions: subs, Payments: payments, Methods: methods}, "CL", nil)

		pay := entities.Payment{TenantID: "tenant-1", Provider: entities.ProviderTransbank, ProviderPaymentID: "O1", PlanID: entities.PlanBusiness, Amount: 79000, Status: entities.PaymentStatusApproved}
		methods.EXPECT().GetByID(gomock.Any(), "tenant-1", "pm-1").Return(method, nil)
		provider.MockIOneclickEnroller.EXPECT().Authorize(gomock.Any(), method, entities.PlanBusiness).Return(pay, nil)
		payments.EXPECT().Upsert(gomock.Any(), pay).Return(pay, nil)
		subs.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s entities.Subscription) (entities.Subscription, error) {
			if s.ProviderSubscriptionID != "oneclick-pm-1" || s.Status != entities.SubscriptionStatusActive || s.CurrentPeriodEnd == nil {
				t.Fatalf("unexpected subscription: %+v", s)
			}
			return s, nil
		})

		got, err := uc.ChargePaymentMethod(context.Background(), "tenant-1", "pm-1", "BUSINESS")
		if err != nil || got.Amount != 79000 {
			t.Fatalf("unexpected result %+v %v", got, err)
		}
	})

	t.Run("enterprise is never charged", func(t *testing.T) {
		uc := NewBillingUseCase(NewPaymentService(), BillingDeps{}, "CL", nil)
		if _, err := uc.ChargePaymentMethod(context.Background(), "tenant-1", "pm-1", "ENTERPRISE"); !errors.Is(err, entities.ErrContactSales) {
			t.Fatalf("expected ErrContactSales, got %v", err)
		}
	})

	t.Run("card methods are unsupported", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		methods := mock_interfaces.NewMockIPaymentMethodRepository(ctrl)
		uc := NewBillingUseCase(NewPaymentService(), BillingDeps{
			Subscriptions: mock_interfaces.NewMockISubscriptionRepository(ctrl),
			Payments:      mock_interfaces.NewMockIPaymentRepository(ctrl),
			Methods:       methods,
		}, "CL", nil)

		methods.EXPECT().GetByID(gomock.Any(), "tenant-1", "pm-2").Return(entities.PaymentMethod{ID: "pm-2", Type: entities.PaymentMethodCard, Provider: entities.ProviderStripe}, nil)
		if _, err := uc.ChargePaymentMethod(context.Background(), "tenant-1", "pm-2", "PRO"); !errors.Is(err, entities.ErrUnsupportedOperation) {
			t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
		}
	})
}

func TestBillingUseCase_RemovePaymentMethod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	provider := oneclickProvider{mock_interfaces.NewMockIPaymentProvider(ctrl), mock_interfaces.NewMockIOneclickEnroller(ctrl)}
	methods := mock_interfaces.NewMockIPaymentMethodRepository(ctrl)
	uc := NewBillingUseCase(NewPaymentService(provider), BillingDeps{Methods: methods}, "CL", nil)

	method := entities.PaymentMethod{ID: "pm-1", TenantID: "tenant-1", Type: entities.PaymentMethodOneclick, Provider: entities.ProviderTransbank}
	methods.EXPECT().GetByID(gomock.Any(), "tenant-1", "pm-1").Return(method, nil)
	gomock.InOrder(
		provider.MockIOneclickEnroller.EXPECT().RemoveInscription(gomock.Any(), method).Return(nil),
		methods.EXPECT().Delete(gomock.Any(), "tenant-1", "pm-1").Return(nil),
	)

	if err := uc.RemovePaymentMethod(context.Background(), "tenant-1", "pm-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBillingUseCase_StartOneclickInscription_NotConfigured(t *testing.T) {
	uc := NewBillingUseCase(NewPaymentService(), BillingDeps{}, "CL", nil)
	if _, err := uc.StartOneclickInscription(context.Background(), "tenant-1", "a@b.cl"); !errors.Is(err, entities.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestBillingUseCase_GetPortalURL(t *testing.T) {
	t.Run("no subscription", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		uc := NewBillingUseCase(NewPaymentService(), BillingDeps{Subscriptions: subs}, "CL", nil)

		subs.EXPECT().GetCurrent(gomock.Any(), "tenant-1").Return(entities.Subscription{}, entities.ErrSubscriptionNotFound)
		url, err := uc.GetPortalURL(context.Background(), "tenant-1")
		if err != nil || url != "" {
			t.Fatalf("expected empty url, got %q %v", url, err)
		}
	})

	t.Run("stripe subscription", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		stripe := newNamedProvider(ctrl, entities.ProviderStripe)
		subs := mock_interfaces.NewMockISubscriptionRepository(ctrl)
		uc := NewBillingUseCase(newServiceWith(stripe), BillingDeps{Subscriptions: subs}, "CL", nil)

		subs.EXPECT().GetCurrent(gomock.Any(), "tenant-1").Return(entities.Subscription{Provider: entities.ProviderStripe}, nil)
		stripe.EXPECT().GetPortalURL(gomock.Any(), "tenant-1").Return("https://billing.stripe.com/p/session", nil)
		url, err := uc.GetPortalURL(context.Background(), "tenant-1")
		if err != nil || url != "https://billing.stripe.com/p/session" {
			t.Fatalf("unexpected portal url %q %v", url, err)
		}
	})
}

func TestBillingUseCase_ListProviders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := NewBillingUseCase(newServiceWith(newNamedProvider(ctrl, entities.ProviderStripe), newNamedProvider(ctrl, entities.ProviderMercadoPago)), BillingDeps{}, "CL", nil)

	info := uc.ListProviders("")
	if info.Region != entities.RegionChile || info.Preferred != entities.ProviderMercadoPago || len(info.Available) != 2 {
		t.Fatalf("unexpected providers info: %+v", info)
	}
	if info := uc.ListProviders("us"); info.Preferred != entities.ProviderStripe {
		t.Fatalf("expected stripe for US, got %+v", info)
	}
}
