package conditions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIMGWFetchParsesStationPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id_stacji": "12135",
			"stacja": "Hel",
			"data_pomiaru": "2026-08-30",
			"godzina_pomiaru": "11",
			"temperatura": "17.8",
			"predkosc_wiatru": "5",
			"kierunek_wiatru": "310"
		}`))
	}))
	defer srv.Close()

	s := NewIMGWStrategy(srv.Client())
	s.baseURL = srv.URL

	cond, err := s.Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if cond.WindSpeed != 5 {
		t.Errorf("wind = %v, want 5", cond.WindSpeed)
	}
	if cond.Direction != "NW" {
		t.Errorf("direction = %q, want NW (310 degrees)", cond.Direction)
	}
	if cond.Temperature != 17.8 {
		t.Errorf("temperature = %v, want 17.8", cond.Temperature)
	}
	if cond.Timestamp != "2026-08-30 11:00" {
		t.Errorf("timestamp = %q", cond.Timestamp)
	}
	if cond.IsEmpty() {
		t.Error("parsed conditions reported as empty")
	}
}

func TestIMGWFetchRejectsUnmappedSpot(t *testing.T) {
	s := NewIMGWStrategy(http.DefaultClient)
	if _, err := s.Fetch(context.Background(), 999); err == nil {
		t.Error("expected error for spot with no station mapping")
	}
}

func TestKadynyParseLine(t *testing.T) {
	cond, err := parseKadynyLine("2026-08-30 12:10;6.4;9.1;ENE;21.3")
	if err != nil {
		t.Fatalf("parseKadynyLine: %v", err)
	}
	if cond.WindSpeed != 6.4 || cond.GustSpeed != 9.1 || cond.Temperature != 21.3 {
		t.Errorf("parsed %+v", cond)
	}
	if cond.Direction != "NE" {
		t.Errorf("direction = %q, want NE (from ENE)", cond.Direction)
	}
}

func TestKadynyParseLineMalformed(t *testing.T) {
	for _, line := range []string{"", "a;b", "ts;x;9.1;N;21.3"} {
		if _, err := parseKadynyLine(line); err == nil {
			t.Errorf("parseKadynyLine(%q): expected error", line)
		}
	}
}

func TestKadynyFetchReadsNewestRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# wiatrkadyny feed\n2026-08-30 12:10;6.4;9.1;ENE;21.3\n2026-08-30 12:00;5.9;8.2;NE;21.1\n"))
	}))
	defer srv.Close()

	s := NewKadynyStrategy(srv.Client(), srv.URL)

	cond, err := s.Fetch(context.Background(), kadynySpotID)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if cond.Timestamp != "2026-08-30 12:10" {
		t.Errorf("timestamp = %q, want the newest record", cond.Timestamp)
	}
}
