package wunderground

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/diwise/ingress-wunderground/internal/pkg/application/weather"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

const (
	DefaultKeyPageURL         = "https://www.wunderground.com/"
	DefaultObservationBaseURL = "https://api.weather.com/v2/pws/observations/current"
)

var tracer = otel.Tracer("wunderground-client")

// NewHTTPClient returns a client where every request gets the full timeout
// on its own.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}
}

// wrap tags err with kind and, when the request ran out of time, with
// weather.ErrTimeout as well.
func wrap(kind error, msg string, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w: %s: %s", kind, weather.ErrTimeout, msg, err.Error())
	}
	return fmt.Errorf("%w: %s: %s", kind, msg, err.Error())
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
