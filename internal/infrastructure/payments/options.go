package payments

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Options are shared by every adapter.
type Options struct {
	// PublicBaseURL is where gateways reach this service (return and
	// notification URLs).
	PublicBaseURL string
	Timeout       time.Duration
	MaxRetries    int
	Logger        *zap.Logger
}

func (o Options) logger(name string) *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger.Named("payments." + name)
}

func (o Options) webhookURL(provider string) string {
	return strings.TrimRight(o.PublicBaseURL, "/") + "/v1/webhooks/" + provider
}
