package spot

import "testing"

func TestNormalizeDirectionPrimaries(t *testing.T) {
	for _, d := range []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"} {
		if got := NormalizeDirection(d); got != d {
			t.Errorf("NormalizeDirection(%q) = %q, want %q", d, got, d)
		}
	}
}

func TestNormalizeDirectionIntermediates(t *testing.T) {
	cases := map[string]string{
		"NNE": "NE", "ENE": "NE",
		"ESE": "SE", "SSE": "SE",
		"SSW": "SW", "WSW": "SW",
		"WNW": "NW", "NNW": "NW",
	}
	for in, want := range cases {
		if got := NormalizeDirection(in); got != want {
			t.Errorf("NormalizeDirection(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeDirectionFallbacks(t *testing.T) {
	cases := map[string]string{
		"north":     "N",
		"NE by E":   "NE",
		"  se ":     "SE",
		"West wind": "W",
		"gibberish": "N",
		"":          "N",
	}
	for in, want := range cases {
		if got := NormalizeDirection(in); got != want {
			t.Errorf("NormalizeDirection(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDirectionFromDegrees(t *testing.T) {
	cases := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{22, "N"},
		{23, "NE"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{350, "N"},
		{360, "N"},
	}
	for _, c := range cases {
		if got := DirectionFromDegrees(c.deg); got != c.want {
			t.Errorf("DirectionFromDegrees(%v) = %q, want %q", c.deg, got, c.want)
		}
	}
}

func TestCurrentConditionsIsEmpty(t *testing.T) {
	var empty CurrentConditions
	if !empty.IsEmpty() {
		t.Error("zero CurrentConditions should be empty")
	}

	cases := []CurrentConditions{
		{Timestamp: "2026-08-30 12:00"},
		{WindSpeed: 0.1},
		{GustSpeed: 1},
		{Direction: "N"},
		{Temperature: -2},
	}
	for _, c := range cases {
		if c.IsEmpty() {
			t.Errorf("%+v should not be empty", c)
		}
	}
}

func TestParseForecastModel(t *testing.T) {
	cases := map[string]ForecastModel{
		"gfs":   ModelGFS,
		"GFS":   ModelGFS,
		"ifs":   ModelIFS,
		"IFS":   ModelIFS,
		" ifs ": ModelIFS,
		"bogus": DefaultModel,
		"":      DefaultModel,
	}
	for in, want := range cases {
		if got := ParseForecastModel(in); got != want {
			t.Errorf("ParseForecastModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestForecastSeriesHourly(t *testing.T) {
	s := ForecastSeries{
		HourlyGFS: []ForecastEntry{{Label: "gfs"}},
		HourlyIFS: []ForecastEntry{{Label: "ifs"}},
	}
	if got := s.Hourly(ModelGFS); len(got) != 1 || got[0].Label != "gfs" {
		t.Errorf("Hourly(gfs) = %+v", got)
	}
	if got := s.Hourly(ModelIFS); len(got) != 1 || got[0].Label != "ifs" {
		t.Errorf("Hourly(ifs) = %+v", got)
	}
}
