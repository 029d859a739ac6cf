package entities

import "strings"

// PlanID identifies a subscription plan.
type PlanID string

const (
	PlanFree       PlanID = "FREE"
	PlanPro        PlanID = "PRO"
	PlanBusiness   PlanID = "BUSINESS"
	PlanEnterprise PlanID = "ENTERPRISE"
)

// BillingInterval is the recurrence of a plan charge.
type BillingInterval string

const BillingIntervalMonth BillingInterval = "month"

// SubscriptionPlan is immutable reference data.
//
// Price is denominated in whole Chilean pesos. ENTERPRISE carries a price of 0
// meaning "contact sales", not "free". Limits use 0 for unlimited.
type SubscriptionPlan struct {
	ID         PlanID          `json:"id"`
	Name       string          `json:"name"`
	Price      int64           `json:"price"`
	Currency   string          `json:"currency"`
	Interval   BillingInterval `json:"interval"`
	Features   []string        `json:"features"`
	MaxUsers   int             `json:"max_users"`
	MaxRecords int             `json:"max_records"`
}

var (
	PlanCatalogFree = SubscriptionPlan{
		ID:         PlanFree,
		Name:       "Free",
		Price:      0,
		Currency:   "CLP",
		Interval:   BillingIntervalMonth,
		Features:   []string{"basic-catalog"},
		MaxUsers:   2,
		MaxRecords: 100,
	}

	PlanCatalogPro = SubscriptionPlan{
		ID:         PlanPro,
		Name:       "Pro",
		Price:      29000,
		Currency:   "CLP",
		Interval:   BillingIntervalMonth,
		Features:   []string{"basic-catalog", "invitations", "email-support"},
		MaxUsers:   10,
		MaxRecords: 10_000,
	}

	PlanCatalogBusiness = SubscriptionPlan{
		ID:         PlanBusiness,
		Name:       "Business",
		Price:      79000,
		Currency:   "CLP",
		Interval:   BillingIntervalMonth,
		Features:   []string{"basic-catalog", "invitations", "priority-support", "advanced-roles", "api-access"},
		MaxUsers:   50,
		MaxRecords: 100_000,
	}

	PlanCatalogEnterprise = SubscriptionPlan{
		ID:         PlanEnterprise,
		Name:       "Enterprise",
		Price:      0, // contact sales
		Currency:   "CLP",
		Interval:   BillingIntervalMonth,
		Features:   []string{"basic-catalog", "invitations", "priority-support", "advanced-roles", "api-access", "sso", "dedicated-support"},
		MaxUsers:   0,
		MaxRecords: 0,
	}

	// Plans is the ordered plan catalog.
	Plans = []SubscriptionPlan{PlanCatalogFree, PlanCatalogPro, PlanCatalogBusiness, PlanCatalogEnterprise}
)

// PlanByID looks up a plan in the catalog.
func PlanByID(id PlanID) (SubscriptionPlan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return SubscriptionPlan{}, false
}

// ParsePlanID normalizes s and reports whether it names a catalog plan.
func ParsePlanID(s string) (PlanID, bool) {
	id := PlanID(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := PlanByID(id)
	return id, ok
}

// IsContactSales reports whether the plan is sold outside self-service checkout.
func (p SubscriptionPlan) IsContactSales() bool {
	return p.ID == PlanEnterprise
}
