package spot

import (
	"math"
	"strings"
)

// compass8 is the 8-point compass in clockwise order starting at north.
// Index i corresponds to i*45 degrees.
var compass8 = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// intermediate maps the 16-point compass values that are not primary
// directions to their nearest diagonal.
var intermediate = map[string]string{
	"NNE": "NE", "ENE": "NE",
	"ESE": "SE", "SSE": "SE",
	"SSW": "SW", "WSW": "SW",
	"WNW": "NW", "NNW": "NW",
}

// NormalizeDirection collapses a raw station-reported wind direction to one
// of the 8 primary compass points. Stations report anything from clean
// 8-point values through 16-point values to free-form text; unrecognized
// input falls back to a prefix match against the primaries and finally to
// "N".
func NormalizeDirection(raw string) string {
	d := strings.ToUpper(strings.TrimSpace(raw))

	for _, p := range compass8 {
		if d == p {
			return p
		}
	}
	if p, ok := intermediate[d]; ok {
		return p
	}

	// Prefix match, longest primaries first so "NE..." is not swallowed by "N".
	for _, p := range []string{"NE", "SE", "SW", "NW", "N", "E", "S", "W"} {
		if strings.HasPrefix(d, p) {
			return p
		}
	}
	return "N"
}

// DirectionFromDegrees maps a wind direction in degrees to the 8-point
// compass: round(degrees/45) mod 8.
func DirectionFromDegrees(deg float64) string {
	idx := int(math.Round(deg/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return compass8[idx]
}
