package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/diwise/ingress-wunderground/internal/pkg/application/services/observations"
	"github.com/diwise/ingress-wunderground/internal/pkg/application/weather"
	"github.com/diwise/ingress-wunderground/internal/pkg/config"
	"github.com/diwise/ingress-wunderground/internal/pkg/infrastructure/logging"
	"github.com/diwise/ingress-wunderground/internal/pkg/infrastructure/wunderground"
	"github.com/joho/godotenv"
)

const serviceName = "wunderground-observation"

const (
	exitOK = iota
	exitFailure
	exitConfiguration
	exitNoResult
	exitCredentialUnavailable
	exitFetchFailed
	exitConversionFailed
	exitSerializationFailed
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %s\n", err.Error())
	}

	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(ctx, serviceName, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err.Error())
		return exitCode(err)
	}

	ctx, logger := logging.NewRunContext(ctx,
		logging.NewLogger(stderr, cfg.LogFormat, cfg.LogLevel, serviceName, version()),
	)
	logger.Debug("starting up", "station", cfg.StationID, "unit", cfg.Unit.String(), "timeout", cfg.Timeout)

	client := wunderground.NewHTTPClient(cfg.Timeout)
	svc := observations.NewObservationService(
		wunderground.NewKeyResolver(client, cfg.KeyPageURL),
		wunderground.NewFetcher(client, cfg.ObservationURL),
	)

	result, err := svc.Current(ctx, cfg.StationID, cfg.Unit)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err.Error())
		return exitCode(err)
	}

	if !result.Found {
		fmt.Fprintln(stderr, "no result...")
		return exitNoResult
	}

	if _, err = fmt.Fprintf(stdout, "%s\n", result.Document); err != nil {
		logger.Error("failed to write observation", "err", err.Error())
		return exitFailure
	}

	return exitOK
}

// exitCode gives every failure kind its own process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, weather.ErrConfiguration):
		return exitConfiguration
	case errors.Is(err, weather.ErrCredentialUnavailable):
		return exitCredentialUnavailable
	case errors.Is(err, weather.ErrFetchFailed):
		return exitFetchFailed
	case errors.Is(err, weather.ErrConversionFailed):
		return exitConversionFailed
	case errors.Is(err, weather.ErrSerializationFailed):
		return exitSerializationFailed
	default:
		return exitFailure
	}
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	infoMap := map[string]string{}
	for _, s := range buildInfo.Settings {
		infoMap[s.Key] = s.Value
	}

	sha := infoMap["vcs.revision"]
	if infoMap["vcs.modified"] == "true" {
		sha += "+"
	}

	return sha
}
