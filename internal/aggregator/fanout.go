package aggregator

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

// The two fan-out helpers implement the two failure policies the refresh
// cycles need. They are deliberately separate functions rather than one
// helper with a flag, so each cycle's semantics stay explicit.

// fanAll runs one task per spot concurrently and returns the first error,
// cancelling the contexts of tasks still in flight. Cache writes a task
// completed before the failure remain in place.
func fanAll(ctx context.Context, spots []spot.Descriptor, timeout time.Duration, task func(context.Context, spot.Descriptor) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, d := range spots {
		d := d
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return task(tctx, d)
		})
	}
	return g.Wait()
}

// fanEach runs one task per spot concurrently, logging and swallowing
// individual failures so one broken source never affects the other spots.
func fanEach(ctx context.Context, spots []spot.Descriptor, timeout time.Duration, kind string, task func(context.Context, spot.Descriptor) error) {
	var wg sync.WaitGroup
	for _, d := range spots {
		d := d
		wg.Add(1)
		go func() {
			defer wg.Done()
			tctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			if err := task(tctx, d); err != nil {
				log.Printf("%s refresh: spot %d (%s) skipped: %v", kind, d.ID, d.Name, err)
			}
		}()
	}
	wg.Wait()
}
