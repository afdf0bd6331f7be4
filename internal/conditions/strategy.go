// Package conditions fetches live readings from station-specific sources.
//
// Each source is a Strategy: a small adapter that declares which spot ids
// it can serve and whether it is a primary or a fallback source for them.
// The Dispatcher tries the primary first and walks the fallbacks in
// registration order until one succeeds.
package conditions

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

// ErrNoDataSource is returned when no strategy can serve a spot, or every
// candidate failed. Callers must treat this as "no fresh data", not as a
// fatal condition; the existing cache entry stays untouched.
var ErrNoDataSource = errors.New("no live data source available")

// Strategy is a source-specific live-condition adapter.
type Strategy interface {
	Name() string
	CanProcess(spotID int) bool
	// Fallback reports whether this strategy is a secondary source. For
	// any spot id at most one registered strategy may be primary.
	Fallback() bool
	Fetch(ctx context.Context, spotID int) (spot.CurrentConditions, error)
}

// Dispatcher routes live-condition fetches to the matching strategy.
type Dispatcher struct {
	strategies []Strategy
}

// NewDispatcher creates a dispatcher with the given strategies, in
// registration order.
func NewDispatcher(strategies ...Strategy) *Dispatcher {
	return &Dispatcher{strategies: strategies}
}

// Register appends a strategy. Order matters among fallbacks.
func (d *Dispatcher) Register(s Strategy) {
	d.strategies = append(d.strategies, s)
}

// Validate checks the primary-uniqueness invariant over the given spot ids:
// at most one non-fallback strategy may claim any id. Run at startup so a
// misconfigured strategy set fails fast instead of shadowing a source.
func (d *Dispatcher) Validate(spotIDs []int) error {
	for _, id := range spotIDs {
		var primary string
		for _, s := range d.strategies {
			if s.Fallback() || !s.CanProcess(id) {
				continue
			}
			if primary != "" {
				return fmt.Errorf("spot %d has two primary strategies: %s and %s", id, primary, s.Name())
			}
			primary = s.Name()
		}
	}
	return nil
}

// candidates returns the strategies able to serve id: the primary first,
// then fallbacks in registration order.
func (d *Dispatcher) candidates(id int) []Strategy {
	var out []Strategy
	for _, s := range d.strategies {
		if !s.Fallback() && s.CanProcess(id) {
			out = append(out, s)
		}
	}
	for _, s := range d.strategies {
		if s.Fallback() && s.CanProcess(id) {
			out = append(out, s)
		}
	}
	return out
}

// Dispatch fetches live conditions for a spot, falling through to the next
// candidate on any failure.
func (d *Dispatcher) Dispatch(ctx context.Context, spotID int) (spot.CurrentConditions, error) {
	cands := d.candidates(spotID)
	if len(cands) == 0 {
		return spot.CurrentConditions{}, fmt.Errorf("%w: spot %d", ErrNoDataSource, spotID)
	}

	var lastErr error
	for _, s := range cands {
		cond, err := s.Fetch(ctx, spotID)
		if err == nil {
			return cond, nil
		}
		log.Printf("conditions: strategy %s failed for spot %d: %v", s.Name(), spotID, err)
		lastErr = err
	}

	return spot.CurrentConditions{}, fmt.Errorf("%w: spot %d: last error: %v", ErrNoDataSource, spotID, lastErr)
}
