package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

func TestFetchAnalysisSkipsSparseForecast(t *testing.T) {
	c := NewClient("test-key")

	// No daily forecast means there is nothing to analyze; the client must
	// return an empty narrative without calling the API.
	got, err := c.FetchAnalysis(context.Background(), Input{Name: "Rewa", Country: "Poland"}, spot.LangEN)
	if err != nil {
		t.Fatalf("FetchAnalysis: %v", err)
	}
	if got != "" {
		t.Errorf("FetchAnalysis = %q, want empty string", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	in := Input{
		Name:    "Chałupy",
		Country: "Poland",
		Daily: []spot.ForecastEntry{
			{Label: "Sat 30.08", WindSpeed: 9, GustSpeed: 14.2, Direction: "W", Temperature: 19.5, Precipitation: 0.2},
		},
	}

	prompt := buildPrompt(in)
	for _, want := range []string{"Chałupy, Poland", "Sat 30.08", "9.0 / 14.2 W"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSystemPromptPerLanguage(t *testing.T) {
	if en := systemPrompt(spot.LangEN); !strings.Contains(en, "kitesurfing instructor") {
		t.Errorf("english system prompt: %q", en)
	}
	if pl := systemPrompt(spot.LangPL); !strings.Contains(pl, "instruktorem") {
		t.Errorf("polish system prompt: %q", pl)
	}
}
