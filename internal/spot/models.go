package spot

import "strings"

// ForecastModel identifies the numerical weather model a forecast series
// was produced by.
type ForecastModel string

const (
	// ModelGFS is the primary forecast model.
	ModelGFS ForecastModel = "gfs"
	ModelIFS ForecastModel = "ifs"
)

// DefaultModel is used whenever a caller does not (or cannot) name a model.
const DefaultModel = ModelGFS

// ParseForecastModel maps a user-supplied model string to a ForecastModel.
// Unrecognized input degrades to the default model instead of failing; a
// bad query parameter should never cost the caller their forecast.
func ParseForecastModel(s string) ForecastModel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ifs":
		return ModelIFS
	default:
		return DefaultModel
	}
}

// Language selects the narrative analysis language.
type Language string

const (
	LangEN Language = "en"
	LangPL Language = "pl"
)

// Languages lists every language the analysis cycle runs for.
var Languages = []Language{LangEN, LangPL}

// Descriptor is the static, immutable description of a kitesurfing spot.
// Descriptors are loaded once from the catalog at startup and never mutated.
type Descriptor struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Country     string            `json:"country"`
	Lat         float64           `json:"lat"`
	Lon         float64           `json:"lon"`
	LiveURL     string            `json:"liveUrl,omitempty"`
	MapEmbedURL string            `json:"mapEmbedUrl,omitempty"`
	Info        map[string]string `json:"info,omitempty"`
}

// ForecastEntry is a single forecast data point, daily or hourly.
type ForecastEntry struct {
	Label         string  `json:"label"`
	WindSpeed     float64 `json:"windSpeed"`
	GustSpeed     float64 `json:"gustSpeed"`
	Direction     string  `json:"direction"`
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
}

// ForecastSeries holds the cached forecast for one spot: a short daily
// outlook plus one hourly series per forecast model. The hourly series are
// updated independently; refreshing one model must not erase the other.
type ForecastSeries struct {
	Daily     []ForecastEntry `json:"daily"`
	HourlyGFS []ForecastEntry `json:"hourlyGfs"`
	HourlyIFS []ForecastEntry `json:"hourlyIfs"`
}

// Hourly returns the hourly series for the given model.
func (f ForecastSeries) Hourly(model ForecastModel) []ForecastEntry {
	if model == ModelIFS {
		return f.HourlyIFS
	}
	return f.HourlyGFS
}

// CurrentConditions is a live reading from a weather station. The zero
// value is the "no live data" sentinel: a real calm reading still carries a
// timestamp and a direction, so all-fields-zero is unambiguous.
type CurrentConditions struct {
	Timestamp   string  `json:"timestamp"`
	WindSpeed   float64 `json:"windSpeed"`
	GustSpeed   float64 `json:"gustSpeed"`
	Direction   string  `json:"direction"`
	Temperature float64 `json:"temperature"`
}

// IsEmpty reports whether c is the no-data sentinel.
func (c CurrentConditions) IsEmpty() bool {
	return c == CurrentConditions{}
}

// Enriched is the read-time projection of a spot: its static descriptor
// merged with whatever the caches currently hold. It is computed per
// request and never stored.
type Enriched struct {
	Descriptor

	Forecast ForecastSeries `json:"forecast"`

	// Hourly is the hourly series for the requested model.
	Model  ForecastModel   `json:"model"`
	Hourly []ForecastEntry `json:"hourly"`

	CurrentConditions CurrentConditions `json:"currentConditions"`

	AnalysisEN string `json:"analysisEn"`
	AnalysisPL string `json:"analysisPl"`
}
