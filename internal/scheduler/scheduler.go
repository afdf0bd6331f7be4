// Package scheduler drives the three independent refresh cycles. Each
// cycle runs on its own period and writes into the engine's caches off the
// request-serving path entirely.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

// Engine is the part of the aggregation engine the scheduler drives.
type Engine interface {
	RefreshForecasts(ctx context.Context) error
	RefreshConditions(ctx context.Context)
	RefreshAnalyses(ctx context.Context, lang spot.Language)
}

// Intervals holds the period of each refresh cycle.
type Intervals struct {
	Forecast   time.Duration
	Conditions time.Duration
	Analysis   time.Duration
}

// Scheduler owns the gocron instance and the three periodic jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	engine    Engine
	intervals Intervals
}

// New creates a Scheduler. Jobs run in singleton mode so a slow cycle is
// skipped rather than overlapped.
func New(engine Engine, intervals Intervals) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		engine:    engine,
		intervals: intervals,
	}
}

// Start registers the three cycles and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.intervals.Forecast).Tag("forecast").Do(func() {
		log.Println("scheduler: running forecast refresh cycle")
		// A cycle-level error is an alerting signal only; writes committed
		// before the failure are kept and the next cycle retries.
		if err := s.engine.RefreshForecasts(context.Background()); err != nil {
			log.Printf("scheduler: %v", err)
		}
	})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Every(s.intervals.Conditions).Tag("conditions").Do(func() {
		s.engine.RefreshConditions(context.Background())
	})
	if err != nil {
		return err
	}

	// One analysis cycle per supported language.
	for _, lang := range spot.Languages {
		lang := lang
		_, err = s.scheduler.Every(s.intervals.Analysis).Tag("analysis-" + string(lang)).Do(func() {
			log.Printf("scheduler: running analysis refresh cycle (%s)", lang)
			s.engine.RefreshAnalyses(context.Background(), lang)
		})
		if err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
