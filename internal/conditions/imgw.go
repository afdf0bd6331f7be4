package conditions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/kitewatch/kitespot-aggregation/internal/httpx"
	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

// imgwStations maps spot ids to IMGW synop station ids. Several spots sit
// close enough to share one physical station, so the mapping is many-to-one.
var imgwStations = map[int]string{
	1: "12135", // Chałupy  -> Hel
	2: "12135", // Jastarnia -> Hel
	4: "12135", // Rewa      -> Hel
	5: "12200", // Świnoujście
	6: "12120", // Dębki     -> Łeba
}

// IMGWStrategy reads live synop data from the public IMGW API. It is the
// primary source for the Polish coastal spots.
type IMGWStrategy struct {
	baseURL  string
	stations map[int]string
	httpCfg  httpx.Config
	circuit  *gobreaker.CircuitBreaker
}

func NewIMGWStrategy(client *http.Client) *IMGWStrategy {
	return &IMGWStrategy{
		baseURL:  "https://danepubliczne.imgw.pl/api/data/synop/id",
		stations: imgwStations,
		httpCfg: httpx.Config{
			Client: client,
			Backoff: httpx.Backoff{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: httpx.NewBreaker("imgw"),
	}
}

func (s *IMGWStrategy) Name() string { return "imgw" }

func (s *IMGWStrategy) CanProcess(spotID int) bool {
	_, ok := s.stations[spotID]
	return ok
}

func (s *IMGWStrategy) Fallback() bool { return false }

func (s *IMGWStrategy) Fetch(ctx context.Context, spotID int) (spot.CurrentConditions, error) {
	station, ok := s.stations[spotID]
	if !ok {
		return spot.CurrentConditions{}, fmt.Errorf("imgw: no station mapped for spot %d", spotID)
	}

	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s/%s", s.baseURL, station), nil)
	}

	resp, err := httpx.Do(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return spot.CurrentConditions{}, err
	}
	defer resp.Body.Close()

	// IMGW serializes every numeric field as a string.
	var payload struct {
		Station     string `json:"stacja"`
		Date        string `json:"data_pomiaru"`
		Hour        string `json:"godzina_pomiaru"`
		Temperature string `json:"temperatura"`
		WindSpeed   string `json:"predkosc_wiatru"`
		WindDir     string `json:"kierunek_wiatru"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return spot.CurrentConditions{}, fmt.Errorf("imgw: decode station %s: %w", station, err)
	}

	wind, err := strconv.ParseFloat(payload.WindSpeed, 64)
	if err != nil {
		return spot.CurrentConditions{}, fmt.Errorf("imgw: wind speed %q: %w", payload.WindSpeed, err)
	}
	temp, err := strconv.ParseFloat(payload.Temperature, 64)
	if err != nil {
		return spot.CurrentConditions{}, fmt.Errorf("imgw: temperature %q: %w", payload.Temperature, err)
	}
	deg, err := strconv.ParseFloat(payload.WindDir, 64)
	if err != nil {
		return spot.CurrentConditions{}, fmt.Errorf("imgw: wind direction %q: %w", payload.WindDir, err)
	}

	return spot.CurrentConditions{
		Timestamp:   fmt.Sprintf("%s %s:00", payload.Date, payload.Hour),
		WindSpeed:   wind,
		Direction:   spot.DirectionFromDegrees(deg),
		Temperature: temp,
	}, nil
}
