package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/alert"
	"github.com/metarwatch/metarwatch/internal/metar"
	"github.com/metarwatch/metarwatch/internal/run"
	"github.com/metarwatch/metarwatch/internal/station"
)

// DefaultRetention is the storage retention window for observations and run
// records.
const DefaultRetention = 30 * 24 * time.Hour

// Fetcher retrieves observations from the upstream METAR feed.
type Fetcher interface {
	BuildURL(stationIDs []string) string
	Fetch(ctx context.Context, stationIDs []string) ([]*metar.Observation, error)
}

// Publisher emits alert-candidate events toward the decision engine.
type Publisher interface {
	PublishAlertCandidates(ctx context.Context, events []*alert.Event) error
}

// Config holds collection behavior settings.
type Config struct {
	// AlertOnEmpty gates candidate events for the empty outcome class.
	// Error events always flow; this is a collector-side gate independent
	// of the router's own policy filters.
	AlertOnEmpty bool

	// StaleAfter, when positive, reclassifies stations whose newest
	// observation is older than this as error. Zero disables it.
	StaleAfter time.Duration

	// MetarRetention and RunRetention bound storage; both default to
	// DefaultRetention.
	MetarRetention time.Duration
	RunRetention   time.Duration

	// FallbackStationIDs are collected with default policy when the
	// station store has no enabled stations.
	FallbackStationIDs []string
}

// JobConfig holds the job's collaborators.
type JobConfig struct {
	Config    Config
	Stations  station.Repository
	Fetcher   Fetcher
	Metars    metar.Repository
	Runs      run.Repository
	Publisher Publisher
	Logger    zerolog.Logger

	// Now is the clock; defaults to time.Now. Injected for tests.
	Now func() time.Time
}

// Job performs one collection cycle per Collect call.
type Job struct {
	cfg       Config
	stations  station.Repository
	fetcher   Fetcher
	metars    metar.Repository
	runs      run.Repository
	publisher Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewJob creates a new collection job.
func NewJob(cfg JobConfig) *Job {
	c := cfg.Config
	if c.MetarRetention <= 0 {
		c.MetarRetention = DefaultRetention
	}
	if c.RunRetention <= 0 {
		c.RunRetention = DefaultRetention
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Job{
		cfg:       c,
		stations:  cfg.Stations,
		fetcher:   cfg.Fetcher,
		metars:    cfg.Metars,
		runs:      cfg.Runs,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		now:       now,
	}
}

// Result summarizes one collection cycle.
type Result struct {
	CheckedAt          time.Time
	Status             run.Status
	StationIDs         []string
	ObservationsStored int
	EventsPublished    int
	ErrorMessage       string
}

// Collect runs one collection cycle: fetch, classify, persist, emit.
//
// An upstream fetch or parse failure is not an error from Collect's point
// of view; it classifies every station as error and emits candidates. Only
// persistence or event-publish failures are returned.
func (j *Job) Collect(ctx context.Context) (*Result, error) {
	checkedAt := j.now().UTC().Truncate(time.Second)

	stations, err := j.stationConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load station configs: %w", err)
	}
	if len(stations) == 0 {
		j.logger.Warn().Msg("no stations configured; skipping collection")
		return &Result{CheckedAt: checkedAt, Status: run.StatusEmpty}, nil
	}

	stationIDs := make([]string, 0, len(stations))
	for _, s := range stations {
		stationIDs = append(stationIDs, s.ID)
	}
	sourceURL := j.fetcher.BuildURL(stationIDs)

	result := &Result{CheckedAt: checkedAt, StationIDs: stationIDs}

	observations, err := j.fetcher.Fetch(ctx, stationIDs)
	if err != nil {
		// Whole-batch failure: every station is an error candidate
		// carrying the shared message.
		result.Status = run.StatusError
		result.ErrorMessage = err.Error()

		statuses := make(map[string]string, len(stationIDs))
		for _, id := range stationIDs {
			statuses[id] = StatusError
		}

		if err := j.appendRun(ctx, checkedAt, run.StatusError, stationIDs, sourceURL, 0, result.ErrorMessage); err != nil {
			return nil, err
		}
		published, err := j.publishCandidates(ctx, stations, statuses, checkedAt, sourceURL, result.ErrorMessage)
		if err != nil {
			return nil, err
		}
		result.EventsPublished = published

		j.logger.Error().
			Str("source_url", sourceURL).
			Str("error", result.ErrorMessage).
			Msg("collection failed upstream")
		return result, nil
	}

	if len(observations) == 0 {
		result.Status = run.StatusEmpty

		if err := j.appendRun(ctx, checkedAt, run.StatusEmpty, stationIDs, sourceURL, 0, ""); err != nil {
			return nil, err
		}
		statuses := make(map[string]string, len(stationIDs))
		for _, id := range stationIDs {
			statuses[id] = StatusEmpty
		}
		published, err := j.publishCandidates(ctx, stations, statuses, checkedAt, sourceURL, "")
		if err != nil {
			return nil, err
		}
		result.EventsPublished = published

		j.logger.Warn().Str("source_url", sourceURL).Msg("collection returned no observations")
		return result, nil
	}

	statuses := Classify(stationIDs, observations, checkedAt, j.cfg.StaleAfter)

	runStatus := run.StatusOK
	errorMessage := ""
	for _, id := range stationIDs {
		if statuses[id] == StatusError {
			runStatus = run.StatusError
			errorMessage = "stale observations detected"
			break
		}
	}

	for _, o := range observations {
		o.CollectedAt = checkedAt
	}
	if err := j.metars.PutBatch(ctx, observations, j.cfg.MetarRetention); err != nil {
		return nil, fmt.Errorf("store observations: %w", err)
	}
	if err := j.appendRun(ctx, checkedAt, runStatus, stationIDs, sourceURL, len(observations), errorMessage); err != nil {
		return nil, err
	}

	published, err := j.publishCandidates(ctx, stations, statuses, checkedAt, sourceURL, errorMessage)
	if err != nil {
		return nil, err
	}

	result.Status = runStatus
	result.ErrorMessage = errorMessage
	result.ObservationsStored = len(observations)
	result.EventsPublished = published

	j.logger.Info().
		Int("observations", len(observations)).
		Int("events", published).
		Str("status", string(runStatus)).
		Msg("collection completed")
	return result, nil
}

// stationConfigs loads enabled stations, falling back to a static id list
// with default policy when the store is empty.
func (j *Job) stationConfigs(ctx context.Context) ([]*station.Station, error) {
	stations, err := j.stations.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if len(stations) > 0 {
		return stations, nil
	}

	fallback := make([]*station.Station, 0, len(j.cfg.FallbackStationIDs))
	for _, raw := range j.cfg.FallbackStationIDs {
		id := station.NormalizeID(raw)
		if id == "" {
			continue
		}
		fallback = append(fallback, &station.Station{
			ID:              id,
			Enabled:         true,
			NotifyOn:        station.NotifyOnBoth,
			CooldownMinutes: alert.DefaultCooldownMinutes,
			AlertsEnabled:   true,
		})
	}
	sort.Slice(fallback, func(i, k int) bool { return fallback[i].ID < fallback[k].ID })
	return fallback, nil
}

func (j *Job) appendRun(ctx context.Context, checkedAt time.Time, status run.Status, stationIDs []string, sourceURL string, count int, errorMessage string) error {
	err := j.runs.Append(ctx, &run.Run{
		CheckedAt:    checkedAt,
		Status:       status,
		StationIDs:   stationIDs,
		SourceURL:    sourceURL,
		MetarCount:   count,
		ErrorMessage: errorMessage,
		ExpiresAt:    checkedAt.Add(j.cfg.RunRetention),
	})
	if err != nil {
		return fmt.Errorf("append run record: %w", err)
	}
	return nil
}

// publishCandidates builds one event per non-ok station, applies the
// alert-on-empty gate, and publishes the batch.
func (j *Job) publishCandidates(ctx context.Context, stations []*station.Station, statuses map[string]string, checkedAt time.Time, sourceURL, errorMessage string) (int, error) {
	events := BuildCandidateEvents(stations, statuses, checkedAt, sourceURL, errorMessage)
	events = FilterCandidateEvents(events, j.cfg.AlertOnEmpty)
	if len(events) == 0 {
		return 0, nil
	}

	if err := j.publisher.PublishAlertCandidates(ctx, events); err != nil {
		return 0, fmt.Errorf("publish alert candidates: %w", err)
	}
	return len(events), nil
}

// BuildCandidateEvents constructs alert-candidate events for every station
// whose outcome is not ok, carrying a snapshot of the station's policy
// fields at emission time.
func BuildCandidateEvents(stations []*station.Station, statuses map[string]string, checkedAt time.Time, sourceURL, errorMessage string) []*alert.Event {
	var events []*alert.Event
	for _, s := range stations {
		status, ok := statuses[s.ID]
		if !ok {
			status = StatusEmpty
		}
		if status == StatusOK {
			continue
		}

		// The shared error text applies to error-class outcomes only.
		msg := errorMessage
		if status != StatusError {
			msg = ""
		}

		events = append(events, &alert.Event{
			StationID:       s.ID,
			Status:          status,
			CheckedAtUTC:    checkedAt.Format(time.RFC3339),
			SourceURL:       sourceURL,
			ErrorMessage:    msg,
			OwnerID:         s.OwnerID,
			NotifyOn:        string(s.NotifyOn),
			CooldownMinutes: s.CooldownMinutes,
			AlertsEnabled:   s.AlertsEnabled,
		})
	}
	return events
}

// FilterCandidateEvents drops empty-class events when alerting on empty is
// disabled. Error-class events always pass.
func FilterCandidateEvents(events []*alert.Event, alertOnEmpty bool) []*alert.Event {
	if alertOnEmpty {
		return events
	}

	kept := events[:0]
	for _, e := range events {
		if e.Status != StatusEmpty {
			kept = append(kept, e)
		}
	}
	return kept
}
