// Package correlation encodes tenant and plan identity into gateway-native
// order/reference fields so asynchronous webhooks can be reconciled without a
// side lookup.
//
// Long form: tenant-{tenantID}-{planID}-{unixSeconds}
// Compact form: {planID}.{tenantID}
//
// Parsing the long form is anchored on the right: the timestamp is the last
// hyphen segment and the plan is the one before it. Plan ids and timestamps never
// contain hyphens, so any tenant id round-trips.
package correlation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"saas_billing/internal/domain/entities"
)

const longPrefix = "tenant-"

// Reference is the decoded correlation payload.
type Reference struct {
	TenantID  string
	PlanID    entities.PlanID
	Timestamp time.Time
}

// Encode builds the long form.
func Encode(tenantID string, planID entities.PlanID, at time.Time) string {
	return fmt.Sprintf("%s%s-%s-%d", longPrefix, tenantID, planID, at.Unix())
}

// EncodeCompact builds the compact form used by length-limited fields.
func EncodeCompact(tenantID string, planID entities.PlanID) string {
	return string(planID) + "." + tenantID
}

// Parse decodes either form.
func Parse(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, longPrefix) {
		return parseLong(s)
	}
	return parseCompact(s)
}

func parseLong(s string) (Reference, error) {
	body := strings.TrimPrefix(s, longPrefix)

	i := strings.LastIndexByte(body, '-')
	if i <= 0 {
		return Reference{}, fmt.Errorf("%w: %q", entities.ErrInvalidCorrelation, s)
	}
	ts, err := strconv.ParseInt(body[i+1:], 10, 64)
	if err != nil || ts < 0 {
		return Reference{}, fmt.Errorf("%w: bad timestamp in %q", entities.ErrInvalidCorrelation, s)
	}
	body = body[:i]

	j := strings.LastIndexByte(body, '-')
	if j <= 0 {
		return Reference{}, fmt.Errorf("%w: %q", entities.ErrInvalidCorrelation, s)
	}
	planID, ok := entities.ParsePlanID(body[j+1:])
	if !ok {
		return Reference{}, fmt.Errorf("%w: unknown plan in %q", entities.ErrInvalidCorrelation, s)
	}

	return Reference{TenantID: body[:j], PlanID: planID, Timestamp: time.Unix(ts, 0).UTC()}, nil
}

func parseCompact(s string) (Reference, error) {
	plan, tenantID, ok := strings.Cut(s, ".")
	if !ok || tenantID == "" {
		return Reference{}, fmt.Errorf("%w: %q", entities.ErrInvalidCorrelation, s)
	}
	planID, known := entities.ParsePlanID(plan)
	if !known {
		return Reference{}, fmt.Errorf("%w: unknown plan in %q", entities.ErrInvalidCorrelation, s)
	}
	return Reference{TenantID: tenantID, PlanID: planID}, nil
}
