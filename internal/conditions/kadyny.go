package conditions

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/kitewatch/kitespot-aggregation/internal/httpx"
	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

const kadynySpotID = 3

// KadynyStrategy reads the wiatrkadyny station feed: a plain-text file with
// one semicolon-separated record per line, newest first.
//
//	timestamp;wind m/s;gust m/s;direction;temperature
//	2026-08-30 12:10;6.4;9.1;ENE;21.3
type KadynyStrategy struct {
	feedURL string
	httpCfg httpx.Config
	circuit *gobreaker.CircuitBreaker
}

func NewKadynyStrategy(client *http.Client, feedURL string) *KadynyStrategy {
	return &KadynyStrategy{
		feedURL: feedURL,
		httpCfg: httpx.Config{
			Client: client,
			Backoff: httpx.Backoff{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: httpx.NewBreaker("kadyny"),
	}
}

func (s *KadynyStrategy) Name() string { return "kadyny" }

func (s *KadynyStrategy) CanProcess(spotID int) bool { return spotID == kadynySpotID }

func (s *KadynyStrategy) Fallback() bool { return false }

func (s *KadynyStrategy) Fetch(ctx context.Context, spotID int) (spot.CurrentConditions, error) {
	if spotID != kadynySpotID {
		return spot.CurrentConditions{}, fmt.Errorf("kadyny: cannot serve spot %d", spotID)
	}

	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, s.feedURL, nil)
	}

	resp, err := httpx.Do(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return spot.CurrentConditions{}, err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return parseKadynyLine(line)
	}
	if err := scanner.Err(); err != nil {
		return spot.CurrentConditions{}, fmt.Errorf("kadyny: read feed: %w", err)
	}
	return spot.CurrentConditions{}, fmt.Errorf("kadyny: feed contains no records")
}

func parseKadynyLine(line string) (spot.CurrentConditions, error) {
	fields := strings.Split(line, ";")
	if len(fields) != 5 {
		return spot.CurrentConditions{}, fmt.Errorf("kadyny: malformed record %q", line)
	}

	wind, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return spot.CurrentConditions{}, fmt.Errorf("kadyny: wind speed %q: %w", fields[1], err)
	}
	gust, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return spot.CurrentConditions{}, fmt.Errorf("kadyny: gust speed %q: %w", fields[2], err)
	}
	temp, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return spot.CurrentConditions{}, fmt.Errorf("kadyny: temperature %q: %w", fields[4], err)
	}

	return spot.CurrentConditions{
		Timestamp:   strings.TrimSpace(fields[0]),
		WindSpeed:   wind,
		GustSpeed:   gust,
		Direction:   spot.NormalizeDirection(fields[3]),
		Temperature: temp,
	}, nil
}
