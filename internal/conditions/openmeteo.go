package conditions

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

// SpotLookup resolves spot ids to descriptors; satisfied by the registry.
type SpotLookup interface {
	Get(id int) (spot.Descriptor, error)
}

// OpenMeteoStrategy is the coordinate-based fallback source. It can serve
// any catalog spot, so it is registered as a fallback for all of them and
// only consulted when a spot has no working station source.
type OpenMeteoStrategy struct {
	baseURL string
	spots   SpotLookup
	httpCfg httpx.Config
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoStrategy(client *http.Client, spots SpotLookup) *OpenMeteoStrategy {
	return &OpenMeteoStrategy{
		baseURL: "https://api.open-meteo.com/v1/forecast",
		spots:   spots,
		httpCfg: httpx.Config{
			Client: client,
			Backoff: httpx.Backoff{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: httpx.NewBreaker("openmeteo-live"),
	}
}

func (s *OpenMeteoStrategy) Name() string { return "openmeteo" }

func (s *OpenMeteoStrategy) CanProcess(spotID int) bool {
	_, err := s.spots.Get(spotID)
	return err == nil
}

func (s *OpenMeteoStrategy) Fallback() bool { return true }

func (s *OpenMeteoStrategy) Fetch(ctx context.Context, spotID int) (spot.CurrentConditions, error) {
	desc, err := s.spots.Get(spotID)
	if err != nil {
		return spot.CurrentConditions{}, err
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", desc.Lat))
		values.Set("longitude", fmt.Sprintf("%f", desc.Lon))
		values.Set("current", "temperature_2m,wind_speed_10m,wind_gusts_10m,wind_direction_10m")
		values.Set("wind_speed_unit", "ms")

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", s.baseURL, values.Encode()), nil)
	}

	resp, err := httpx.Do(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return spot.CurrentConditions{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Time        string  `json:"time"`
			Temperature float64 `json:"temperature_2m"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			WindGusts   float64 `json:"wind_gusts_10m"`
			WindDir     float64 `json:"wind_direction_10m"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return spot.CurrentConditions{}, fmt.Errorf("openmeteo: decode current conditions: %w", err)
	}

	return spot.CurrentConditions{
		Timestamp:   payload.Current.Time,
		WindSpeed:   payload.Current.WindSpeed,
		GustSpeed:   payload.Current.WindGusts,
		Direction:   spot.DirectionFromDegrees(payload.Current.WindDir),
		Temperature: payload.Current.Temperature,
	}, nil
}
