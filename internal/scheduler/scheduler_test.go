package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

type noopEngine struct{}

func (noopEngine) RefreshForecasts(context.Context) error         { return nil }
func (noopEngine) RefreshConditions(context.Context)              {}
func (noopEngine) RefreshAnalyses(context.Context, spot.Language) {}

func TestStartAndStop(t *testing.T) {
	s := New(noopEngine{}, Intervals{
		Forecast:   time.Hour,
		Conditions: time.Hour,
		Analysis:   time.Hour,
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
