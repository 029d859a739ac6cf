package entities

import "testing"

func TestPlanCatalog(t *testing.T) {
	tests := []struct {
		id       PlanID
		price    int64
		users    int
		records  int
		contact  bool
		currency string
	}{
		{PlanFree, 0, 2, 100, false, "CLP"},
		{PlanPro, 29000, 10, 10_000, false, "CLP"},
		{PlanBusiness, 79000, 50, 100_000, false, "CLP"},
		{PlanEnterprise, 0, 0, 0, true, "CLP"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			p, ok := PlanByID(tt.id)
			if !ok {
				t.Fatalf("expected plan %s in catalog", tt.id)
			}
			if p.Price != tt.price || p.MaxUsers != tt.users || p.MaxRecords != tt.records {
				t.Fatalf("unexpected plan values: %+v", p)
			}
			if p.IsContactSales() != tt.contact {
				t.Fatalf("IsContactSales() = %v, want %v", p.IsContactSales(), tt.contact)
			}
			if p.Currency != tt.currency || p.Interval != BillingIntervalMonth {
				t.Fatalf("unexpected currency/interval: %+v", p)
			}
		})
	}
}

func TestParsePlanID(t *testing.T) {
	if id, ok := ParsePlanID(" pro "); !ok || id != PlanPro {
		t.Fatalf("expected PRO, got %q ok=%v", id, ok)
	}
	if _, ok := ParsePlanID("UNKNOWN"); ok {
		t.Fatalf("expected UNKNOWN to be rejected")
	}
}

func TestParseProviderName(t *testing.T) {
	if p, ok := ParseProviderName("MercadoPago"); !ok || p != ProviderMercadoPago {
		t.Fatalf("expected mercadopago, got %q ok=%v", p, ok)
	}
	if _, ok := ParseProviderName("paypal"); ok {
		t.Fatalf("expected paypal to be unknown")
	}
	if ParseRegion(" cl ") != RegionChile {
		t.Fatalf("expected region CL")
	}
}
