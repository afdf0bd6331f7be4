// Package aggregator owns the per-spot caches and the refresh cycles that
// keep them warm. Reads merge the static registry entry with whatever the
// caches currently hold and never wait on an in-flight refresh.
package aggregator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kitewatch/kitespot-aggregation/internal/analysis"
	"github.com/kitewatch/kitespot-aggregation/internal/forecast"
	"github.com/kitewatch/kitespot-aggregation/internal/registry"
	"github.com/kitewatch/kitespot-aggregation/internal/spot"
	"github.com/kitewatch/kitespot-aggregation/internal/store"
)

// ForecastCycleError is the typed failure of a whole forecast refresh
// cycle. It exists for alerting: the scheduler logs it and does nothing
// else, because per-spot writes completed before the failure are already
// in the caches and the next cycle retries naturally.
type ForecastCycleError struct {
	Err error
}

func (e *ForecastCycleError) Error() string {
	return fmt.Sprintf("forecast refresh cycle failed: %v", e.Err)
}

func (e *ForecastCycleError) Unwrap() error { return e.Err }

// ForecastClient fetches one (spot, model) forecast fragment.
type ForecastClient interface {
	Fetch(ctx context.Context, desc spot.Descriptor, model spot.ForecastModel) (forecast.Fragment, error)
}

// ConditionsSource resolves a spot id to live conditions; satisfied by the
// conditions dispatcher.
type ConditionsSource interface {
	Dispatch(ctx context.Context, spotID int) (spot.CurrentConditions, error)
}

// AnalysisClient generates narrative commentary for a spot.
type AnalysisClient interface {
	FetchAnalysis(ctx context.Context, in analysis.Input, lang spot.Language) (string, error)
}

// Config tunes the engine.
type Config struct {
	// AnalysisEnabled gates the narrative refresh cycle entirely.
	AnalysisEnabled bool
	// FetchTimeout bounds every per-spot outbound fetch.
	FetchTimeout time.Duration
}

// Engine is the aggregation core. The four caches are its only mutable
// state; the registry is immutable after load.
type Engine struct {
	registry   *registry.Registry
	forecasts  ForecastClient
	conditions ConditionsSource
	analysis   AnalysisClient
	cfg        Config

	forecastCache   *store.Cache[spot.ForecastSeries]
	conditionsCache *store.Cache[spot.CurrentConditions]
	analysisCaches  map[spot.Language]*store.Cache[string]

	// liveUpdated tracks when a spot last delivered a non-empty reading.
	// Empty-but-successful readings are cached yet deliberately do not
	// advance this timestamp.
	liveUpdated *store.Cache[time.Time]
}

// New creates an engine over the given collaborators. The analysis client
// may be nil when Config.AnalysisEnabled is false.
func New(reg *registry.Registry, forecasts ForecastClient, conditions ConditionsSource, analysisClient AnalysisClient, cfg Config) *Engine {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	caches := make(map[spot.Language]*store.Cache[string], len(spot.Languages))
	for _, lang := range spot.Languages {
		caches[lang] = store.NewCache[string]()
	}
	return &Engine{
		registry:        reg,
		forecasts:       forecasts,
		conditions:      conditions,
		analysis:        analysisClient,
		cfg:             cfg,
		forecastCache:   store.NewCache[spot.ForecastSeries](),
		conditionsCache: store.NewCache[spot.CurrentConditions](),
		analysisCaches:  caches,
		liveUpdated:     store.NewCache[time.Time](),
	}
}

// RefreshForecasts fans out over all spots fetching both forecast models.
// The forecast upstream is a single provider, so the first failure aborts
// collection of the remaining results and surfaces as *ForecastCycleError;
// writes already committed stay in place.
func (e *Engine) RefreshForecasts(ctx context.Context) error {
	if e.forecasts == nil {
		log.Println("forecast refresh: no forecast client configured")
		return nil
	}
	err := fanAll(ctx, e.registry.All(), e.cfg.FetchTimeout, func(ctx context.Context, d spot.Descriptor) error {
		return e.refreshSpotForecast(ctx, d)
	})
	if err != nil {
		return &ForecastCycleError{Err: err}
	}
	return nil
}

func (e *Engine) refreshSpotForecast(ctx context.Context, d spot.Descriptor) error {
	for _, model := range []spot.ForecastModel{spot.ModelGFS, spot.ModelIFS} {
		frag, err := e.forecasts.Fetch(ctx, d, model)
		if err != nil {
			return fmt.Errorf("spot %d (%s): %w", d.ID, d.Name, err)
		}
		e.storeFragment(d.ID, frag)
	}
	return nil
}

// storeFragment merges one model's fragment into the cached series. The
// other model's hourly series survives untouched.
func (e *Engine) storeFragment(id int, frag forecast.Fragment) {
	e.forecastCache.Update(id, func(cur spot.ForecastSeries, _ bool) spot.ForecastSeries {
		if len(frag.Daily) > 0 {
			cur.Daily = frag.Daily
		}
		switch frag.Model {
		case spot.ModelIFS:
			cur.HourlyIFS = frag.Hourly
		default:
			cur.HourlyGFS = frag.Hourly
		}
		return cur
	})
}

// RefreshConditions fans out over all spots with per-spot failure
// isolation: a broken station is logged and skipped, and its previous
// cache entry survives.
func (e *Engine) RefreshConditions(ctx context.Context) {
	if e.conditions == nil {
		log.Println("conditions refresh: no dispatcher configured")
		return
	}
	fanEach(ctx, e.registry.All(), e.cfg.FetchTimeout, "conditions", func(ctx context.Context, d spot.Descriptor) error {
		cond, err := e.conditions.Dispatch(ctx, d.ID)
		if err != nil {
			return err
		}
		if !cond.IsEmpty() {
			// Strategies normalize directions themselves, but raw values can
			// still leak through; normalizing here keeps the cache canonical.
			// The empty sentinel is exempt, an empty direction must stay empty.
			cond.Direction = spot.NormalizeDirection(cond.Direction)
		}
		e.conditionsCache.Put(d.ID, cond)
		if !cond.IsEmpty() {
			e.liveUpdated.Put(d.ID, time.Now().UTC())
		}
		return nil
	})
}

// RefreshAnalyses regenerates the narrative cache for one language. A
// disabled feature flag is a valid steady state, not an error. Empty
// narratives are cached as-is: the forecast was too sparse to comment on.
func (e *Engine) RefreshAnalyses(ctx context.Context, lang spot.Language) {
	if !e.cfg.AnalysisEnabled || e.analysis == nil {
		log.Printf("analysis refresh (%s): disabled, skipping", lang)
		return
	}
	cache, ok := e.analysisCaches[lang]
	if !ok {
		log.Printf("analysis refresh: unsupported language %q", lang)
		return
	}

	fanEach(ctx, e.registry.All(), e.cfg.FetchTimeout, "analysis", func(ctx context.Context, d spot.Descriptor) error {
		series, _ := e.forecastCache.Get(d.ID)
		text, err := e.analysis.FetchAnalysis(ctx, analysis.Input{
			Name:    d.Name,
			Country: d.Country,
			Daily:   series.Daily,
		}, lang)
		if err != nil {
			return err
		}
		cache.Put(d.ID, text)
		return nil
	})
}

// KickForecastRefresh starts an out-of-cycle forecast fetch for a single
// spot and returns immediately. Failures are logged only; the scheduled
// cycle remains the source of truth.
func (e *Engine) KickForecastRefresh(id int) {
	if e.forecasts == nil {
		return
	}
	d, err := e.registry.Get(id)
	if err != nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.FetchTimeout)
		defer cancel()
		if err := e.refreshSpotForecast(ctx, d); err != nil {
			log.Printf("opportunistic forecast refresh: %v", err)
		}
	}()
}

// Spots returns the enriched view of every spot in catalog order.
func (e *Engine) Spots() []spot.Enriched {
	descs := e.registry.All()
	out := make([]spot.Enriched, 0, len(descs))
	for _, d := range descs {
		out = append(out, e.enrich(d, spot.DefaultModel))
	}
	return out
}

// SpotByID returns the enriched view of one spot with the default model's
// hourly series, or registry.ErrNotFound.
func (e *Engine) SpotByID(id int) (spot.Enriched, error) {
	return e.SpotByIDForModel(id, spot.DefaultModel)
}

// SpotByIDForModel selects the hourly series for the requested model.
func (e *Engine) SpotByIDForModel(id int, model spot.ForecastModel) (spot.Enriched, error) {
	d, err := e.registry.Get(id)
	if err != nil {
		return spot.Enriched{}, err
	}
	return e.enrich(d, model), nil
}

// enrich merges the descriptor with the current cache contents. Absent
// cache entries simply yield zero-valued fields.
func (e *Engine) enrich(d spot.Descriptor, model spot.ForecastModel) spot.Enriched {
	series, _ := e.forecastCache.Get(d.ID)
	cond, _ := e.conditionsCache.Get(d.ID)
	analysisEN, _ := e.analysisCaches[spot.LangEN].Get(d.ID)
	analysisPL, _ := e.analysisCaches[spot.LangPL].Get(d.ID)

	return spot.Enriched{
		Descriptor:        d,
		Forecast:          series,
		Model:             model,
		Hourly:            series.Hourly(model),
		CurrentConditions: cond,
		AnalysisEN:        analysisEN,
		AnalysisPL:        analysisPL,
	}
}

// CountSpots returns the catalog size.
func (e *Engine) CountSpots() int { return e.registry.Count() }

// CountCountries returns how many countries the catalog spans.
func (e *Engine) CountCountries() int { return e.registry.CountDistinctCountries() }

// CountLiveStations returns how many spots currently hold a non-empty
// live-conditions entry.
func (e *Engine) CountLiveStations() int {
	return e.conditionsCache.Count(func(c spot.CurrentConditions) bool { return !c.IsEmpty() })
}

// LastLiveUpdate reports when a spot last delivered a non-empty live
// reading.
func (e *Engine) LastLiveUpdate(id int) (time.Time, bool) {
	return e.liveUpdated.Get(id)
}
