// Package forecast fetches daily and hourly forecast series from the
// Open-Meteo aggregator, one request per (spot, model) pair.
package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/kitewatch/kitespot-aggregation/internal/httpx"
	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

const (
	dailyDays   = 5
	hourlyHours = 48
)

// modelParams maps our forecast models to Open-Meteo model identifiers.
var modelParams = map[spot.ForecastModel]string{
	spot.ModelGFS: "gfs_seamless",
	spot.ModelIFS: "ecmwf_ifs025",
}

// Fragment is the result of one (spot, model) fetch. The hourly series
// belongs to exactly one model; the engine merges fragments so that one
// model's refresh never clobbers the other's cached series.
type Fragment struct {
	Model  spot.ForecastModel
	Daily  []spot.ForecastEntry
	Hourly []spot.ForecastEntry
}

// Client fetches forecasts from a single upstream aggregator. It performs
// one request per call with no internal retries: the refresh schedule is
// the retry policy.
type Client struct {
	baseURL string
	httpCfg httpx.Config
	circuit *gobreaker.CircuitBreaker
}

func NewClient(client *http.Client) *Client {
	return &Client{
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: httpx.Config{
			Client:  client,
			Backoff: httpx.Backoff{MaxRetries: 0, InitialInterval: time.Second},
		},
		circuit: httpx.NewBreaker("openmeteo-forecast"),
	}
}

// Fetch retrieves the daily outlook plus the hourly series for one model.
func (c *Client) Fetch(ctx context.Context, desc spot.Descriptor, model spot.ForecastModel) (Fragment, error) {
	modelParam, ok := modelParams[model]
	if !ok {
		// Graceful degradation: unknown models fall back to the default.
		model = spot.DefaultModel
		modelParam = modelParams[model]
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", desc.Lat))
		values.Set("longitude", fmt.Sprintf("%f", desc.Lon))
		values.Set("models", modelParam)
		values.Set("forecast_days", fmt.Sprintf("%d", dailyDays))
		values.Set("wind_speed_unit", "ms")
		values.Set("timezone", "UTC")
		values.Set("hourly", "temperature_2m,precipitation,wind_speed_10m,wind_gusts_10m,wind_direction_10m")
		values.Set("daily", "temperature_2m_max,precipitation_sum,wind_speed_10m_max,wind_gusts_10m_max,wind_direction_10m_dominant")

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), nil)
	}

	resp, err := httpx.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return Fragment{}, fmt.Errorf("forecast %s for spot %d: %w", model, desc.ID, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time        []string  `json:"time"`
			Temperature []float64 `json:"temperature_2m"`
			Precip      []float64 `json:"precipitation"`
			WindSpeed   []float64 `json:"wind_speed_10m"`
			WindGusts   []float64 `json:"wind_gusts_10m"`
			WindDir     []float64 `json:"wind_direction_10m"`
		} `json:"hourly"`
		Daily struct {
			Time       []string  `json:"time"`
			TempMax    []float64 `json:"temperature_2m_max"`
			PrecipSum  []float64 `json:"precipitation_sum"`
			WindMax    []float64 `json:"wind_speed_10m_max"`
			GustMax    []float64 `json:"wind_gusts_10m_max"`
			WindDirDom []float64 `json:"wind_direction_10m_dominant"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Fragment{}, fmt.Errorf("forecast %s for spot %d: decode: %w", model, desc.ID, err)
	}

	frag := Fragment{Model: model}

	for i := range payload.Daily.Time {
		if i >= dailyDays || i >= len(payload.Daily.WindMax) || i >= len(payload.Daily.GustMax) ||
			i >= len(payload.Daily.WindDirDom) || i >= len(payload.Daily.TempMax) || i >= len(payload.Daily.PrecipSum) {
			break
		}
		frag.Daily = append(frag.Daily, spot.ForecastEntry{
			Label:         dayLabel(payload.Daily.Time[i]),
			WindSpeed:     payload.Daily.WindMax[i],
			GustSpeed:     payload.Daily.GustMax[i],
			Direction:     spot.DirectionFromDegrees(payload.Daily.WindDirDom[i]),
			Temperature:   payload.Daily.TempMax[i],
			Precipitation: payload.Daily.PrecipSum[i],
		})
	}

	for i := range payload.Hourly.Time {
		if i >= hourlyHours || i >= len(payload.Hourly.WindSpeed) || i >= len(payload.Hourly.WindGusts) ||
			i >= len(payload.Hourly.WindDir) || i >= len(payload.Hourly.Temperature) || i >= len(payload.Hourly.Precip) {
			break
		}
		frag.Hourly = append(frag.Hourly, spot.ForecastEntry{
			Label:         hourLabel(payload.Hourly.Time[i]),
			WindSpeed:     payload.Hourly.WindSpeed[i],
			GustSpeed:     payload.Hourly.WindGusts[i],
			Direction:     spot.DirectionFromDegrees(payload.Hourly.WindDir[i]),
			Temperature:   payload.Hourly.Temperature[i],
			Precipitation: payload.Hourly.Precip[i],
		})
	}

	if len(frag.Daily) == 0 && len(frag.Hourly) == 0 {
		return Fragment{}, fmt.Errorf("forecast %s for spot %d: upstream returned no series", model, desc.ID)
	}

	return frag, nil
}

func dayLabel(t string) string {
	if ts, err := time.Parse("2006-01-02", t); err == nil {
		return ts.Format("Mon 02.01")
	}
	return t
}

func hourLabel(t string) string {
	if ts, err := time.Parse("2006-01-02T15:04", t); err == nil {
		return ts.Format("Mon 15:04")
	}
	return t
}
