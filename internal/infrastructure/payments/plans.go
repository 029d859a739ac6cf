package payments

import (
	"fmt"

	"saas_billing/internal/domain/entities"
)

// CurrencyCLP is the currency of every Chilean-market gateway.
const CurrencyCLP = "CLP"

// GetPlanAmount returns the fixed price of a plan in whole Chilean pesos, read
// from the plan catalog. ENTERPRISE is 0 because it is sold through sales, not
// because it is free.
func GetPlanAmount(planID entities.PlanID) (int64, error) {
	plan, ok := entities.PlanByID(planID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", entities.ErrUnknownPlan, planID)
	}
	return plan.Price, nil
}

// chargeableAmount returns the amount to charge for planID or a configuration
// error when the plan has no positive amount.
func chargeableAmount(provider entities.ProviderName, planID entities.PlanID) (int64, error) {
	amount, err := GetPlanAmount(planID)
	if err != nil || amount <= 0 {
		return 0, entities.ConfigurationErrorf("%s: no amount configured for plan %q", provider, planID)
	}
	return amount, nil
}
