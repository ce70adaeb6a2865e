package collector_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/alert"
	"github.com/metarwatch/metarwatch/internal/collector"
	"github.com/metarwatch/metarwatch/internal/metar"
	"github.com/metarwatch/metarwatch/internal/run"
	"github.com/metarwatch/metarwatch/internal/station"
)

type stubFetcher struct {
	observations []*metar.Observation
	err          error
	url          string
}

func (f *stubFetcher) BuildURL(stationIDs []string) string { return f.url }

func (f *stubFetcher) Fetch(ctx context.Context, stationIDs []string) ([]*metar.Observation, error) {
	return f.observations, f.err
}

type recordingPublisher struct {
	events []*alert.Event
	err    error
}

func (p *recordingPublisher) PublishAlertCandidates(ctx context.Context, events []*alert.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, events...)
	return nil
}

type jobFixture struct {
	stations  *station.InMemoryRepository
	metars    *metar.InMemoryRepository
	runs      *run.InMemoryRepository
	fetcher   *stubFetcher
	publisher *recordingPublisher
}

func newJob(t *testing.T, cfg collector.Config, fx *jobFixture) *collector.Job {
	t.Helper()
	return collector.NewJob(collector.JobConfig{
		Config:    cfg,
		Stations:  fx.stations,
		Fetcher:   fx.fetcher,
		Metars:    fx.metars,
		Runs:      fx.runs,
		Publisher: fx.publisher,
		Logger:    zerolog.Nop(),
		Now:       func() time.Time { return checkedAt },
	})
}

func newFixture() *jobFixture {
	return &jobFixture{
		stations:  station.NewInMemoryRepository(),
		metars:    metar.NewInMemoryRepository(),
		runs:      run.NewInMemoryRepository(),
		fetcher:   &stubFetcher{url: "https://feed.example/metar?ids=KJWY"},
		publisher: &recordingPublisher{},
	}
}

func putStation(t *testing.T, fx *jobFixture, s *station.Station) {
	t.Helper()
	if err := fx.stations.Put(context.Background(), s); err != nil {
		t.Fatalf("put station: %v", err)
	}
}

func lastRun(t *testing.T, fx *jobFixture) *run.Run {
	t.Helper()
	runs, err := fx.runs.ListRecent(context.Background(), 1)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d run records, want 1", len(runs))
	}
	return runs[0]
}

func TestCollect_StoresAndPublishes(t *testing.T) {
	fx := newFixture()
	putStation(t, fx, &station.Station{ID: "KJWY", Enabled: true, OwnerID: "owner-1", NotifyOn: station.NotifyOnBoth, CooldownMinutes: 60, AlertsEnabled: true})
	putStation(t, fx, &station.Station{ID: "KDAL", Enabled: true, NotifyOn: station.NotifyOnBoth, CooldownMinutes: 60, AlertsEnabled: true})
	fx.fetcher.observations = []*metar.Observation{
		{StationID: "KJWY", ObservationTime: checkedAt.Add(-20 * time.Minute)},
	}

	job := newJob(t, collector.Config{AlertOnEmpty: true}, fx)
	result, err := job.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if result.Status != run.StatusOK {
		t.Errorf("run status = %q, want ok", result.Status)
	}
	if result.ObservationsStored != 1 {
		t.Errorf("stored %d observations, want 1", result.ObservationsStored)
	}

	stored, err := fx.metars.ListByStation(context.Background(), "KJWY", 10)
	if err != nil {
		t.Fatalf("list metars: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("got %d stored observations, want 1", len(stored))
	}
	if !stored[0].CollectedAt.Equal(checkedAt) {
		t.Errorf("CollectedAt = %v, want %v", stored[0].CollectedAt, checkedAt)
	}

	r := lastRun(t, fx)
	if r.Status != run.StatusOK || r.MetarCount != 1 {
		t.Errorf("run = status %q count %d, want ok/1", r.Status, r.MetarCount)
	}

	// KDAL had no observation: one empty candidate.
	if len(fx.publisher.events) != 1 {
		t.Fatalf("published %d events, want 1", len(fx.publisher.events))
	}
	e := fx.publisher.events[0]
	if e.StationID != "KDAL" || e.Status != alert.StatusEmpty {
		t.Errorf("event = %s/%s, want KDAL/empty", e.StationID, e.Status)
	}
	if e.SourceURL != fx.fetcher.url {
		t.Errorf("event source url = %q, want %q", e.SourceURL, fx.fetcher.url)
	}
	if e.OwnerID != "" || e.NotifyOn != "both" || e.CooldownMinutes != 60 || !e.AlertsEnabled {
		t.Errorf("event snapshot fields not carried: %+v", e)
	}
}

func TestCollect_FetchFailure(t *testing.T) {
	fx := newFixture()
	putStation(t, fx, &station.Station{ID: "KJWY", Enabled: true, NotifyOn: station.NotifyOnBoth, CooldownMinutes: 60, AlertsEnabled: true})
	putStation(t, fx, &station.Station{ID: "KDAL", Enabled: true, NotifyOn: station.NotifyOnBoth, CooldownMinutes: 60, AlertsEnabled: true})
	fx.fetcher.err = errors.New("request failed with status 503")

	job := newJob(t, collector.Config{}, fx)
	result, err := job.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if result.Status != run.StatusError {
		t.Errorf("run status = %q, want error", result.Status)
	}
	r := lastRun(t, fx)
	if r.Status != run.StatusError {
		t.Errorf("stored run status = %q, want error", r.Status)
	}
	if r.ErrorMessage != "request failed with status 503" {
		t.Errorf("run error = %q", r.ErrorMessage)
	}

	// Every configured station becomes an error candidate with the shared
	// message, regardless of the alert-on-empty gate.
	if len(fx.publisher.events) != 2 {
		t.Fatalf("published %d events, want 2", len(fx.publisher.events))
	}
	for _, e := range fx.publisher.events {
		if e.Status != alert.StatusError {
			t.Errorf("event %s status = %q, want error", e.StationID, e.Status)
		}
		if e.ErrorMessage != "request failed with status 503" {
			t.Errorf("event %s error = %q", e.StationID, e.ErrorMessage)
		}
	}
}

func TestCollect_EmptyFeed(t *testing.T) {
	fx := newFixture()
	putStation(t, fx, &station.Station{ID: "KJWY", Enabled: true, NotifyOn: station.NotifyOnBoth, CooldownMinutes: 60, AlertsEnabled: true})

	t.Run("gated", func(t *testing.T) {
		fx.publisher.events = nil
		job := newJob(t, collector.Config{AlertOnEmpty: false}, fx)
		result, err := job.Collect(context.Background())
		if err != nil {
			t.Fatalf("collect: %v", err)
		}
		if result.Status != run.StatusEmpty {
			t.Errorf("run status = %q, want empty", result.Status)
		}
		if len(fx.publisher.events) != 0 {
			t.Errorf("published %d events, want none with empty alerting disabled", len(fx.publisher.events))
		}
	})

	t.Run("ungated", func(t *testing.T) {
		fx.publisher.events = nil
		job := newJob(t, collector.Config{AlertOnEmpty: true}, fx)
		if _, err := job.Collect(context.Background()); err != nil {
			t.Fatalf("collect: %v", err)
		}
		if len(fx.publisher.events) != 1 {
			t.Fatalf("published %d events, want 1", len(fx.publisher.events))
		}
		if fx.publisher.events[0].Status != alert.StatusEmpty {
			t.Errorf("event status = %q, want empty", fx.publisher.events[0].Status)
		}
		if fx.publisher.events[0].ErrorMessage != "" {
			t.Errorf("empty event carries error %q, want none", fx.publisher.events[0].ErrorMessage)
		}
	})

	// The empty run is recorded either way.
	r := lastRun(t, fx)
	if r.Status != run.StatusEmpty || r.MetarCount != 0 {
		t.Errorf("run = status %q count %d, want empty/0", r.Status, r.MetarCount)
	}
}

func TestCollect_StaleStation(t *testing.T) {
	fx := newFixture()
	putStation(t, fx, &station.Station{ID: "KJWY", Enabled: true, NotifyOn: station.NotifyOnError, CooldownMinutes: 60, AlertsEnabled: true})
	fx.fetcher.observations = []*metar.Observation{
		{StationID: "KJWY", ObservationTime: checkedAt.Add(-150 * time.Minute)},
	}

	job := newJob(t, collector.Config{StaleAfter: 2 * time.Hour}, fx)
	result, err := job.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if result.Status != run.StatusError {
		t.Errorf("run status = %q, want error", result.Status)
	}
	r := lastRun(t, fx)
	if r.ErrorMessage != "stale observations detected" {
		t.Errorf("run error = %q", r.ErrorMessage)
	}

	if len(fx.publisher.events) != 1 {
		t.Fatalf("published %d events, want 1", len(fx.publisher.events))
	}
	e := fx.publisher.events[0]
	if e.Status != alert.StatusError {
		t.Errorf("event status = %q, want error", e.Status)
	}
	if e.ErrorMessage != "stale observations detected" {
		t.Errorf("event error = %q", e.ErrorMessage)
	}
}

func TestCollect_FallbackStations(t *testing.T) {
	fx := newFixture()
	job := newJob(t, collector.Config{FallbackStationIDs: []string{" kjwy "}}, fx)

	result, err := job.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(result.StationIDs) != 1 || result.StationIDs[0] != "KJWY" {
		t.Errorf("station ids = %v, want [KJWY]", result.StationIDs)
	}
}

func TestCollect_NoStations(t *testing.T) {
	fx := newFixture()
	job := newJob(t, collector.Config{}, fx)

	result, err := job.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if result.Status != run.StatusEmpty {
		t.Errorf("run status = %q, want empty", result.Status)
	}
	runs, err := fx.runs.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("recorded %d runs, want none when nothing is configured", len(runs))
	}
}

func TestCollect_PublishFailure(t *testing.T) {
	fx := newFixture()
	putStation(t, fx, &station.Station{ID: "KJWY", Enabled: true, NotifyOn: station.NotifyOnBoth, CooldownMinutes: 60, AlertsEnabled: true})
	fx.publisher.err = errors.New("topic unavailable")

	job := newJob(t, collector.Config{AlertOnEmpty: true}, fx)
	if _, err := job.Collect(context.Background()); err == nil {
		t.Fatal("expected error when publishing fails")
	}
}
