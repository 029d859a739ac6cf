package entities

import "strings"

// ProviderName identifies one of the supported payment gateways.
type ProviderName string

const (
	ProviderStripe      ProviderName = "stripe"
	ProviderTransbank   ProviderName = "transbank"
	ProviderMercadoPago ProviderName = "mercadopago"
	ProviderFlow        ProviderName = "flow"
)

// AllProviders lists every gateway the service knows how to talk to.
var AllProviders = []ProviderName{ProviderStripe, ProviderTransbank, ProviderMercadoPago, ProviderFlow}

// ParseProviderName normalizes a provider name and reports whether it is known.
func ParseProviderName(s string) (ProviderName, bool) {
	p := ProviderName(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllProviders {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Region is an ISO 3166-1 alpha-2 country code used for provider selection.
type Region string

const RegionChile Region = "CL"

func ParseRegion(s string) Region {
	return Region(strings.ToUpper(strings.TrimSpace(s)))
}
