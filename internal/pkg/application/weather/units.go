package weather

import (
	"encoding/json"
	"fmt"
)

type UnitSystem int

const (
	Metric UnitSystem = iota
	English
)

// ParseUnitSystem accepts the command line selectors "m" and "e".
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch s {
	case "m":
		return Metric, nil
	case "e":
		return English, nil
	default:
		return Metric, fmt.Errorf("%w: invalid unit %q, options are 'm' for metric and 'e' for imperial", ErrConfiguration, s)
	}
}

// Code is the value sent upstream in the units query parameter.
func (u UnitSystem) Code() string {
	if u == English {
		return "e"
	}
	return "m"
}

// PayloadKey names the per unit block inside an upstream observation.
func (u UnitSystem) PayloadKey() string {
	if u == English {
		return "imperial"
	}
	return "metric"
}

func (u UnitSystem) String() string {
	if u == English {
		return "english"
	}
	return "metric"
}

func (u UnitSystem) Labels() UnitLabels {
	if u == English {
		return UnitLabels{
			Temperature:   "F",
			Speed:         "mph",
			Pressure:      "inHg",
			Precipitation: "in",
			Elevation:     "ft",
		}
	}
	return UnitLabels{
		Temperature:   "C",
		Speed:         "km/h",
		Pressure:      "hPa",
		Precipitation: "mm",
		Elevation:     "m",
	}
}

func (u UnitSystem) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *UnitSystem) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	switch s {
	case "metric":
		*u = Metric
	case "english":
		*u = English
	default:
		return fmt.Errorf("unknown unit system %q", s)
	}

	return nil
}

type UnitLabels struct {
	Temperature   string `json:"temperature"`
	Speed         string `json:"speed"`
	Pressure      string `json:"pressure"`
	Precipitation string `json:"precipitation"`
	Elevation     string `json:"elevation"`
}
