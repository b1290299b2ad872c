package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/diwise/ingress-wunderground/internal/pkg/application/weather"
	"github.com/diwise/ingress-wunderground/internal/pkg/infrastructure/logging"
	"github.com/diwise/ingress-wunderground/internal/pkg/infrastructure/wunderground"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
)

const DefaultTimeoutMillis uint64 = 10000

// larger values overflow time.Duration, and http.Client treats a non
// positive timeout as no timeout at all
const maxTimeoutMillis = uint64(math.MaxInt64 / int64(time.Millisecond))

// Config is built once per run and handed to everything that needs it.
type Config struct {
	Timeout   time.Duration
	Unit      weather.UnitSystem
	StationID string

	KeyPageURL     string
	ObservationURL string

	LogLevel  slog.Level
	LogFormat string
}

type unitFlag struct {
	unit *weather.UnitSystem
}

func (u unitFlag) String() string {
	if u.unit == nil {
		return weather.Metric.Code()
	}
	return u.unit.Code()
}

func (u unitFlag) Set(s string) error {
	unit, err := weather.ParseUnitSystem(s)
	if err != nil {
		return err
	}
	*u.unit = unit
	return nil
}

// Load parses the command line and the environment. flag.ErrHelp is returned
// as is when usage was requested, every other failure wraps
// weather.ErrConfiguration.
func Load(ctx context.Context, name string, args []string, output io.Writer) (Config, error) {
	cfg := Config{Unit: weather.Metric}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %s [-t timeout_ms] [-u m|e] <station id>\n", name)
		fs.PrintDefaults()
	}

	var timeoutMillis uint64
	fs.Uint64Var(&timeoutMillis, "timeout", DefaultTimeoutMillis, "timeout in ms")
	fs.Uint64Var(&timeoutMillis, "t", DefaultTimeoutMillis, "timeout in ms (shorthand)")
	fs.Var(unitFlag{&cfg.Unit}, "unit", "unit (m for metric, e for imperial)")
	fs.Var(unitFlag{&cfg.Unit}, "u", "unit (shorthand)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %s", weather.ErrConfiguration, err.Error())
	}

	if timeoutMillis == 0 {
		return Config{}, fmt.Errorf("%w: timeout must be positive", weather.ErrConfiguration)
	}
	if timeoutMillis > maxTimeoutMillis {
		return Config{}, fmt.Errorf("%w: timeout must not exceed %d ms", weather.ErrConfiguration, maxTimeoutMillis)
	}
	cfg.Timeout = time.Duration(timeoutMillis) * time.Millisecond

	if len(positional) != 1 {
		return Config{}, fmt.Errorf("%w: expected exactly one station id, got %d arguments", weather.ErrConfiguration, len(positional))
	}
	cfg.StationID = strings.TrimSpace(positional[0])
	if cfg.StationID == "" {
		return Config{}, fmt.Errorf("%w: station id must not be empty", weather.ErrConfiguration)
	}

	cfg.KeyPageURL = env.GetVariableOrDefault(ctx, "WUNDERGROUND_URL", wunderground.DefaultKeyPageURL)
	cfg.ObservationURL = env.GetVariableOrDefault(ctx, "WEATHER_API_URL", wunderground.DefaultObservationBaseURL)

	cfg.LogLevel, err = logging.ParseLevel(env.GetVariableOrDefault(ctx, "LOG_LEVEL", "warn"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", weather.ErrConfiguration, err.Error())
	}

	cfg.LogFormat, err = logging.ParseFormat(env.GetVariableOrDefault(ctx, "LOG_FORMAT", "text"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", weather.ErrConfiguration, err.Error())
	}

	return cfg, nil
}

// parseInterspersed lets flags follow the station id. The flag package stops
// at the first positional argument, so parsing resumes after each one until
// the arguments run out or "--" ends flag parsing.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string

	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}

		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}

		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}

		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
