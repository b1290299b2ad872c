package weather

import "time"

// Payload is the decoded upstream response body. Numbers are kept as
// json.Number so that Convert can type check them.
type Payload map[string]any

// Observation is a current conditions reading for one station. Every value in
// Conditions is expressed in UnitSystem.
type Observation struct {
	StationID       string    `json:"stationId"`
	ObservedAt      time.Time `json:"observedAt"`
	ObservedAtLocal *string   `json:"observedAtLocal"`
	Epoch           int64     `json:"epoch"`

	Neighborhood *string `json:"neighborhood"`
	Country      *string `json:"country"`
	SoftwareType *string `json:"softwareType"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	QCStatus  int64   `json:"qcStatus"`

	Humidity       float64  `json:"humidity"`
	WindDirection  int64    `json:"windDirection"`
	SolarRadiation *float64 `json:"solarRadiation"`
	UV             *float64 `json:"uv"`

	UnitSystem UnitSystem `json:"unitSystem"`
	Units      UnitLabels `json:"units"`
	Conditions Conditions `json:"conditions"`
}

type Conditions struct {
	Temperature float64  `json:"temperature"`
	HeatIndex   float64  `json:"heatIndex"`
	DewPoint    float64  `json:"dewPoint"`
	WindChill   float64  `json:"windChill"`
	WindSpeed   float64  `json:"windSpeed"`
	WindGust    float64  `json:"windGust"`
	Pressure    float64  `json:"pressure"`
	PrecipRate  float64  `json:"precipRate"`
	PrecipTotal float64  `json:"precipTotal"`
	Elevation   *float64 `json:"elevation"`
}
