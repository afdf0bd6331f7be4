package conditions

import (
	"context"
	"errors"
	"testing"

	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

type stubStrategy struct {
	name     string
	ids      map[int]bool
	fallback bool
	cond     spot.CurrentConditions
	err      error
	calls    int
}

func (s *stubStrategy) Name() string           { return s.name }
func (s *stubStrategy) CanProcess(id int) bool { return s.ids[id] }
func (s *stubStrategy) Fallback() bool         { return s.fallback }
func (s *stubStrategy) Fetch(_ context.Context, _ int) (spot.CurrentConditions, error) {
	s.calls++
	return s.cond, s.err
}

func TestDispatchPrefersPrimary(t *testing.T) {
	primary := &stubStrategy{
		name: "primary",
		ids:  map[int]bool{1: true},
		cond: spot.CurrentConditions{WindSpeed: 12, Direction: "W"},
	}
	fallback := &stubStrategy{
		name:     "fallback",
		ids:      map[int]bool{1: true},
		fallback: true,
		cond:     spot.CurrentConditions{WindSpeed: 3, Direction: "N"},
	}

	// Fallback registered first; the primary must still win.
	d := NewDispatcher(fallback, primary)

	cond, err := d.Dispatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if cond.WindSpeed != 12 {
		t.Errorf("got wind %v from %q, want primary's 12", cond.WindSpeed, cond.Direction)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback was consulted %d times despite a healthy primary", fallback.calls)
	}
}

func TestDispatchFallsThroughOnPrimaryFailure(t *testing.T) {
	primary := &stubStrategy{
		name: "primary",
		ids:  map[int]bool{1: true},
		err:  errors.New("station offline"),
	}
	fb1 := &stubStrategy{
		name:     "fb1",
		ids:      map[int]bool{1: true},
		fallback: true,
		err:      errors.New("parse error"),
	}
	fb2 := &stubStrategy{
		name:     "fb2",
		ids:      map[int]bool{1: true},
		fallback: true,
		cond:     spot.CurrentConditions{WindSpeed: 7, Direction: "SW"},
	}

	d := NewDispatcher(primary, fb1, fb2)

	cond, err := d.Dispatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if cond.WindSpeed != 7 || cond.Direction != "SW" {
		t.Errorf("got %+v, want fb2's reading", cond)
	}
	if primary.calls != 1 || fb1.calls != 1 {
		t.Errorf("expected primary and fb1 each tried once, got %d and %d", primary.calls, fb1.calls)
	}
}

func TestDispatchAllSourcesFailed(t *testing.T) {
	primary := &stubStrategy{name: "primary", ids: map[int]bool{1: true}, err: errors.New("boom")}
	d := NewDispatcher(primary)

	if _, err := d.Dispatch(context.Background(), 1); !errors.Is(err, ErrNoDataSource) {
		t.Errorf("Dispatch = %v, want ErrNoDataSource", err)
	}
}

func TestDispatchNoMatchingStrategy(t *testing.T) {
	d := NewDispatcher(&stubStrategy{name: "other", ids: map[int]bool{2: true}})

	if _, err := d.Dispatch(context.Background(), 1); !errors.Is(err, ErrNoDataSource) {
		t.Errorf("Dispatch = %v, want ErrNoDataSource", err)
	}
}

func TestValidateRejectsDuplicatePrimaries(t *testing.T) {
	a := &stubStrategy{name: "a", ids: map[int]bool{1: true}}
	b := &stubStrategy{name: "b", ids: map[int]bool{1: true}}
	d := NewDispatcher(a, b)

	if err := d.Validate([]int{1, 2}); err == nil {
		t.Error("Validate accepted two primaries for the same spot")
	}

	// A primary plus any number of fallbacks is fine.
	b.fallback = true
	if err := d.Validate([]int{1, 2}); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
