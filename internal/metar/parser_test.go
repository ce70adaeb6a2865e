package metar_test

import (
	"strings"
	"testing"
	"time"

	"github.com/metarwatch/metarwatch/internal/metar"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<response>
  <data num_results="3">
    <METAR>
      <raw_text>KJWY 201053Z AUTO 18006KT 10SM CLR 12/08 A3002</raw_text>
      <station_id>KJWY</station_id>
      <observation_time>2026-02-20T10:53:00Z</observation_time>
      <temp_c>12.0</temp_c>
      <dewpoint_c>8.0</dewpoint_c>
      <wind_dir_degrees>180</wind_dir_degrees>
      <wind_speed_kt>6</wind_speed_kt>
      <visibility_statute_mi>10.0</visibility_statute_mi>
      <altim_in_hg>30.02</altim_in_hg>
      <flight_category>VFR</flight_category>
    </METAR>
    <METAR>
      <raw_text>KDAL 201053Z 17008KT 9SM OVC025 14/09 A3001</raw_text>
      <station_id>KDAL</station_id>
      <observation_time>2026-02-20T10:53:00Z</observation_time>
      <temp_c>14.0</temp_c>
      <flight_category>MVFR</flight_category>
    </METAR>
    <METAR>
      <raw_text>garbage record without identifiers</raw_text>
      <observation_time>2026-02-20T10:53:00Z</observation_time>
    </METAR>
  </data>
</response>`

func TestParse(t *testing.T) {
	observations, err := metar.Parse(strings.NewReader(sampleFeed))
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}

	if len(observations) != 2 {
		t.Fatalf("expected 2 observations (record without station id skipped), got %d", len(observations))
	}

	first := observations[0]
	if first.StationID != "KJWY" {
		t.Errorf("expected station KJWY, got %q", first.StationID)
	}
	want := time.Date(2026, 2, 20, 10, 53, 0, 0, time.UTC)
	if !first.ObservationTime.Equal(want) {
		t.Errorf("expected observation time %v, got %v", want, first.ObservationTime)
	}
	if first.TempC != "12.0" {
		t.Errorf("expected temp 12.0, got %q", first.TempC)
	}
	if first.FlightCategory != "VFR" {
		t.Errorf("expected flight category VFR, got %q", first.FlightCategory)
	}
}

func TestParse_SkipsBadObservationTime(t *testing.T) {
	feed := `<response><data>
		<METAR><station_id>KJWY</station_id><observation_time>not-a-time</observation_time></METAR>
	</data></response>`

	observations, err := metar.Parse(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	if len(observations) != 0 {
		t.Errorf("expected unparseable record to be skipped, got %d observations", len(observations))
	}
}

func TestParse_EmptyFeed(t *testing.T) {
	observations, err := metar.Parse(strings.NewReader(`<response><data num_results="0"></data></response>`))
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	if len(observations) != 0 {
		t.Errorf("expected no observations, got %d", len(observations))
	}
}

func TestParse_FeedError(t *testing.T) {
	feed := `<response><errors><error>Invalid station list</error></errors><data></data></response>`

	_, err := metar.Parse(strings.NewReader(feed))
	if err == nil {
		t.Fatal("expected error for feed-level error element")
	}
	if !strings.Contains(err.Error(), "Invalid station list") {
		t.Errorf("expected feed error message, got %v", err)
	}
}

func TestParse_MalformedXML(t *testing.T) {
	if _, err := metar.Parse(strings.NewReader("<response><data>")); err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestClient_BuildURL(t *testing.T) {
	client := metar.NewClient(metar.ClientConfig{LookbackHours: "2.5"})

	got := client.BuildURL([]string{"KJWY", "KDAL"})
	want := metar.DefaultBaseURL + "?format=xml&hours=2.5&ids=KJWY%2CKDAL"
	if got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}
}
