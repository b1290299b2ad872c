package weather

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Convert turns the first observation in the payload into an Observation
// expressed in unit. Only the block matching unit is read, so a record can
// never mix unit systems. Any missing or mistyped required field fails the
// whole conversion.
func Convert(payload Payload, unit UnitSystem) (Observation, error) {
	observations, ok := payload["observations"].([]any)
	if !ok {
		return Observation{}, fmt.Errorf("%w: observations is missing or not an array", ErrConversionFailed)
	}
	if len(observations) == 0 {
		return Observation{}, fmt.Errorf("%w: observations is empty", ErrConversionFailed)
	}

	first, ok := observations[0].(map[string]any)
	if !ok {
		return Observation{}, fmt.Errorf("%w: observations[0] is not an object", ErrConversionFailed)
	}

	r := &reader{obj: first, path: "observations[0]"}

	obs := Observation{
		StationID:       r.str("stationID"),
		ObservedAt:      r.timestamp("obsTimeUtc"),
		ObservedAtLocal: r.optionalStr("obsTimeLocal"),
		Epoch:           r.integer("epoch"),
		Neighborhood:    r.optionalStr("neighborhood"),
		Country:         r.optionalStr("country"),
		SoftwareType:    r.optionalStr("softwareType"),
		Latitude:        r.number("lat"),
		Longitude:       r.number("lon"),
		QCStatus:        r.integer("qcStatus"),
		Humidity:        r.number("humidity"),
		WindDirection:   r.integer("winddir"),
		SolarRadiation:  r.optionalNumber("solarRadiation"),
		UV:              r.optionalNumber("uv"),
		UnitSystem:      unit,
		Units:           unit.Labels(),
	}

	u := r.object(unit.PayloadKey())
	obs.Conditions = Conditions{
		Temperature: u.number("temp"),
		HeatIndex:   u.number("heatIndex"),
		DewPoint:    u.number("dewpt"),
		WindChill:   u.number("windChill"),
		WindSpeed:   u.number("windSpeed"),
		WindGust:    u.number("windGust"),
		Pressure:    u.number("pressure"),
		PrecipRate:  u.number("precipRate"),
		PrecipTotal: u.number("precipTotal"),
		Elevation:   u.optionalNumber("elev"),
	}

	if r.err != nil {
		return Observation{}, r.err
	}
	if u.err != nil {
		return Observation{}, u.err
	}

	return obs, nil
}

// reader extracts typed values from a decoded JSON object. The first failure
// is kept and every later call becomes a no-op returning a zero value.
type reader struct {
	obj  map[string]any
	path string
	err  error
}

func (r *reader) fail(key, format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s.%s %s", ErrConversionFailed, r.path, key, fmt.Sprintf(format, args...))
	}
}

func (r *reader) lookup(key string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.obj[key]
	if !ok || v == nil {
		r.fail(key, "is required")
		return nil, false
	}
	return v, true
}

func (r *reader) str(key string) string {
	v, ok := r.lookup(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(key, "must be a string, got %T", v)
		return ""
	}
	return s
}

func (r *reader) optionalStr(key string) *string {
	if r.err != nil || r.obj[key] == nil {
		return nil
	}
	s := r.str(key)
	if r.err != nil {
		return nil
	}
	return &s
}

func (r *reader) timestamp(key string) time.Time {
	s := r.str(key)
	if r.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		r.fail(key, "is not an RFC 3339 timestamp: %s", err.Error())
		return time.Time{}
	}
	return t.UTC()
}

func (r *reader) number(key string) float64 {
	v, ok := r.lookup(key)
	if !ok {
		return 0
	}

	var f float64
	switch n := v.(type) {
	case json.Number:
		var err error
		f, err = n.Float64()
		if err != nil {
			r.fail(key, "is not a valid number: %s", err.Error())
			return 0
		}
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		r.fail(key, "must be a number, got %T", v)
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(key, "is not a finite number")
		return 0
	}

	return f
}

func (r *reader) optionalNumber(key string) *float64 {
	if r.err != nil || r.obj[key] == nil {
		return nil
	}
	f := r.number(key)
	if r.err != nil {
		return nil
	}
	return &f
}

func (r *reader) integer(key string) int64 {
	v, ok := r.lookup(key)
	if !ok {
		return 0
	}

	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			r.fail(key, "is not a valid integer: %s", err.Error())
			return 0
		}
		return i
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			r.fail(key, "is not an integer: %v", n)
			return 0
		}
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	default:
		r.fail(key, "must be an integer, got %T", v)
		return 0
	}
}

// object returns a reader for a nested object. Failures in the child are
// reported with the full path.
func (r *reader) object(key string) *reader {
	child := &reader{path: r.path + "." + key}

	v, ok := r.lookup(key)
	if !ok {
		child.err = r.err
		return child
	}

	obj, ok := v.(map[string]any)
	if !ok {
		r.fail(key, "must be an object, got %T", v)
		child.err = r.err
		return child
	}

	child.obj = obj
	return child
}
