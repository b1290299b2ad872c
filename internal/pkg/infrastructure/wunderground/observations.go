package wunderground

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/diwise/ingress-wunderground/internal/pkg/application/weather"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel/attribute"
)

const maxObservationSize = 1 << 20

type Fetcher struct {
	client  *http.Client
	baseURL string
}

func NewFetcher(client *http.Client, baseURL string) *Fetcher {
	return &Fetcher{
		client:  client,
		baseURL: baseURL,
	}
}

// CurrentObservation requests the current observation for a station. The
// boolean result is false, with a nil error, when the service answered but
// had nothing to report for the station.
func (f *Fetcher) CurrentObservation(ctx context.Context, apiKey, stationID string, unit weather.UnitSystem) (weather.Payload, bool, error) {
	var err error

	ctx, span := tracer.Start(ctx, "get-current-observation")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.String("station", stationID), attribute.String("units", unit.Code()))

	log := logging.GetFromContext(ctx)

	u, err := f.observationURL(apiKey, stationID, unit)
	if err != nil {
		err = fmt.Errorf("%w: %s", weather.ErrFetchFailed, err.Error())
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		err = fmt.Errorf("%w: failed to create http request: %s", weather.ErrFetchFailed, err.Error())
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		err = wrap(weather.ErrFetchFailed, "failed to retrieve observation", err)
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		log.Debug("no current observation", "station", stationID)
		return nil, false, nil
	}

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("%w: expected status code %d, but got %d", weather.ErrFetchFailed, http.StatusOK, resp.StatusCode)
		return nil, false, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxObservationSize))
	if err != nil {
		err = wrap(weather.ErrFetchFailed, "failed to read observation", err)
		return nil, false, err
	}

	log.Debug("received response", "body", string(body))

	payload, found, err := parseEnvelope(body)
	if err != nil {
		err = fmt.Errorf("%w: %w: %s", weather.ErrFetchFailed, weather.ErrMalformedEnvelope, err.Error())
		return nil, false, err
	}

	return payload, found, nil
}

func (f *Fetcher) observationURL(apiKey, stationID string, unit weather.UnitSystem) (string, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid observation url %q: %s", f.baseURL, err.Error())
	}

	q := u.Query()
	q.Set("apiKey", apiKey)
	q.Set("stationId", stationID)
	q.Set("numericPrecision", "decimal")
	q.Set("format", "json")
	q.Set("units", unit.Code())
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// parseEnvelope only checks what is needed to tell presence from absence.
// The observation itself is validated by weather.Convert.
func parseEnvelope(body []byte) (weather.Payload, bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload weather.Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("body is not a json object: %s", err.Error())
	}
	if payload == nil {
		return nil, false, fmt.Errorf("body is not a json object")
	}

	raw, ok := payload["observations"]
	if !ok {
		return nil, false, fmt.Errorf("observations is missing")
	}
	if raw == nil {
		return nil, false, nil
	}

	observations, ok := raw.([]any)
	if !ok {
		return nil, false, fmt.Errorf("observations must be an array, got %T", raw)
	}

	if len(observations) == 0 {
		return nil, false, nil
	}

	return payload, true, nil
}
