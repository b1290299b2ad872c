package observations

import (
	"context"

	"github.com/diwise/ingress-wunderground/internal/pkg/application/weather"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// KeyResolver produces a fresh api key for the observation endpoint.
type KeyResolver interface {
	ResolveAPIKey(ctx context.Context) (string, error)
}

type Fetcher interface {
	CurrentObservation(ctx context.Context, apiKey, stationID string, unit weather.UnitSystem) (weather.Payload, bool, error)
}

// Result is either a serialized observation or, when Found is false, the
// service's answer that there is nothing to report.
type Result struct {
	Found       bool
	Observation weather.Observation
	Document    []byte
}

type ObservationService interface {
	Current(ctx context.Context, stationID string, unit weather.UnitSystem) (Result, error)
}

func NewObservationService(keys KeyResolver, fetcher Fetcher) ObservationService {
	return &observationSvc{
		keys:    keys,
		fetcher: fetcher,
	}
}

type observationSvc struct {
	keys    KeyResolver
	fetcher Fetcher
}

var tracer = otel.Tracer("wunderground-observations")

func (svc *observationSvc) Current(ctx context.Context, stationID string, unit weather.UnitSystem) (Result, error) {
	var err error

	ctx, span := tracer.Start(ctx, "get-current-observation")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.String("station", stationID), attribute.String("unit", unit.String()))

	_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(
		span, logging.GetFromContext(ctx), ctx,
	)

	apiKey, err := svc.keys.ResolveAPIKey(ctx)
	if err != nil {
		return Result{}, err
	}

	payload, found, err := svc.fetcher.CurrentObservation(ctx, apiKey, stationID, unit)
	if err != nil {
		return Result{}, err
	}
	if !found {
		log.Info("no current observation available", "station", stationID)
		return Result{Found: false}, nil
	}

	obs, err := weather.Convert(payload, unit)
	if err != nil {
		return Result{}, err
	}

	doc, err := weather.Marshal(obs)
	if err != nil {
		return Result{}, err
	}

	log.Debug("observation converted", "station", obs.StationID, "observed_at", obs.ObservedAt)

	return Result{
		Found:       true,
		Observation: obs,
		Document:    doc,
	}, nil
}
