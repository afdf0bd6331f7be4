// Package registry loads and serves the static spot catalog.
//
// The catalog is compiled into the binary and parsed exactly once at
// startup. A catalog that fails to parse is a startup-fatal condition:
// an aggregator with zero spots is not a degraded mode worth serving.
package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

//go:embed catalog.json
var catalogJSON []byte

// ErrNotFound is returned when a spot id is not present in the catalog.
var ErrNotFound = errors.New("spot not found")

// Registry is the immutable, ordered set of spot descriptors. It is safe
// for concurrent use without synchronization because it is never mutated
// after New returns.
type Registry struct {
	spots []spot.Descriptor
	byID  map[int]spot.Descriptor
}

// Load parses the embedded catalog.
func Load() (*Registry, error) {
	return New(catalogJSON)
}

// New parses a catalog from raw JSON. Parsing the same bytes twice yields
// identical registries, in order and content.
func New(catalog []byte) (*Registry, error) {
	var spots []spot.Descriptor
	if err := json.Unmarshal(catalog, &spots); err != nil {
		return nil, fmt.Errorf("parse spot catalog: %w", err)
	}
	if len(spots) == 0 {
		return nil, errors.New("spot catalog is empty")
	}

	byID := make(map[int]spot.Descriptor, len(spots))
	for _, s := range spots {
		if s.ID <= 0 {
			return nil, fmt.Errorf("spot %q has invalid id %d", s.Name, s.ID)
		}
		if _, dup := byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate spot id %d in catalog", s.ID)
		}
		if s.Name == "" || s.Country == "" {
			return nil, fmt.Errorf("spot %d is missing name or country", s.ID)
		}
		byID[s.ID] = s
	}

	return &Registry{spots: spots, byID: byID}, nil
}

// All returns the descriptors in catalog order.
func (r *Registry) All() []spot.Descriptor {
	out := make([]spot.Descriptor, len(r.spots))
	copy(out, r.spots)
	return out
}

// Get returns the descriptor for id, or ErrNotFound.
func (r *Registry) Get(id int) (spot.Descriptor, error) {
	d, ok := r.byID[id]
	if !ok {
		return spot.Descriptor{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return d, nil
}

// IDs returns every spot id in catalog order.
func (r *Registry) IDs() []int {
	ids := make([]int, len(r.spots))
	for i, s := range r.spots {
		ids[i] = s.ID
	}
	return ids
}

// Count returns the number of spots in the catalog.
func (r *Registry) Count() int {
	return len(r.spots)
}

// CountDistinctCountries returns how many distinct countries the catalog
// spans.
func (r *Registry) CountDistinctCountries() int {
	seen := make(map[string]struct{})
	for _, s := range r.spots {
		seen[s.Country] = struct{}{}
	}
	return len(seen)
}
