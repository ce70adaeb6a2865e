package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/owner"
	"github.com/metarwatch/metarwatch/internal/station"
)

// MaxSubjectLength bounds notification subjects for downstream transports.
const MaxSubjectLength = 100

// MarkerRetention is how long cooldown markers are kept, independent of
// cooldown length. Storage hygiene only.
const MarkerRetention = 30 * 24 * time.Hour

// DefaultCooldownMinutes applies when a station has no usable cooldown
// configured.
const DefaultCooldownMinutes = 60

// EngineConfig holds the engine's collaborators.
type EngineConfig struct {
	Stations  station.Repository
	Owners    owner.Repository
	Cooldowns CooldownStore
	Notifier  Notifier
	Logger    zerolog.Logger

	// Now is the clock; defaults to time.Now. Injected for tests.
	Now func() time.Time
}

// Engine decides, for one candidate event at a time, whether a notification
// should be sent. Each invocation is independent: the engine holds no state
// between decisions and tolerates redelivered duplicates, relying on the
// cooldown marker to suppress repeats.
type Engine struct {
	stations  station.Repository
	owners    owner.Repository
	cooldowns CooldownStore
	notifier  Notifier
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEngine creates a new alert decision engine.
func NewEngine(cfg EngineConfig) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		stations:  cfg.Stations,
		owners:    cfg.Owners,
		cooldowns: cfg.Cooldowns,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger,
		now:       now,
	}
}

// DecideAndRoute runs the decision pipeline for one event.
//
// A skip (bad input, configuration drift, muted alerts, active cooldown) is
// not an error: the outcome carries the reason and the invocation succeeds.
// A non-nil error means dispatch or storage failed; the caller's transport
// owns retry, and no cooldown marker has been written for a failed dispatch
// so the retry is not suppressed.
func (e *Engine) DecideAndRoute(ctx context.Context, event *Event) (*Outcome, error) {
	stationID := station.NormalizeID(event.StationID)
	status := strings.ToLower(strings.TrimSpace(event.Status))

	// The collector never emits "ok" candidates; defend anyway.
	if stationID == "" || (status != StatusError && status != StatusEmpty) {
		return e.skip(stationID, status, SkipInvalidEvent), nil
	}

	st, err := e.stations.Get(ctx, stationID)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			return e.skip(stationID, status, SkipStationNotFound), nil
		}
		return nil, fmt.Errorf("resolve station %s: %w", stationID, err)
	}

	if !st.AlertsEnabled {
		return e.skip(stationID, status, SkipStationAlertsDisabled), nil
	}

	policy := station.ParseNotifyPolicy(string(st.NotifyOn))
	if !policy.Allows(status) {
		return e.skip(stationID, status, SkipNotifyPolicy), nil
	}

	ownerID := strings.TrimSpace(st.OwnerID)
	if ownerID == "" {
		return e.skip(stationID, status, SkipNoOwner), nil
	}
	e.checkSnapshot(event, st)

	ow, err := e.owners.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, owner.ErrOwnerNotFound) {
			return e.skip(stationID, status, SkipOwnerNotFound), nil
		}
		return nil, fmt.Errorf("resolve owner %s: %w", ownerID, err)
	}

	if !ow.AlertsEnabled {
		return e.skip(stationID, status, SkipOwnerAlertsDisabled), nil
	}

	if ow.Topic == "" {
		return e.skip(stationID, status, SkipNoOwnerTopic), nil
	}

	// The current configured cooldown applies, not the value stored with
	// the marker.
	cooldownMinutes := st.CooldownMinutes
	if cooldownMinutes <= 0 {
		cooldownMinutes = DefaultCooldownMinutes
	}

	marker, err := e.cooldowns.Get(ctx, stationID, status)
	if err != nil {
		return nil, fmt.Errorf("read cooldown marker %s/%s: %w", stationID, status, err)
	}
	now := e.now()
	if marker != nil && now.Sub(marker.LastNotified) < time.Duration(cooldownMinutes)*time.Minute {
		return e.skip(stationID, status, SkipCooldown), nil
	}

	notification := buildNotification(ow.Topic, stationID, ownerID, status, event)
	if err := e.notifier.Publish(ctx, notification); err != nil {
		// No marker is written: a transport-level retry must not be
		// suppressed by a cooldown it never earned.
		return nil, fmt.Errorf("dispatch notification for %s/%s: %w", stationID, status, err)
	}

	err = e.cooldowns.Put(ctx, &CooldownMarker{
		StationID:       stationID,
		Status:          status,
		LastNotified:    now,
		CooldownMinutes: cooldownMinutes,
		ExpiresAt:       now.Add(MarkerRetention),
	})
	if err != nil {
		// The notification went out; a retried delivery may duplicate it.
		// Duplicates are safe, a missed incident is not.
		return nil, fmt.Errorf("record cooldown marker %s/%s: %w", stationID, status, err)
	}

	e.logger.Info().
		Str("station_id", stationID).
		Str("owner_id", ownerID).
		Str("status", status).
		Msg("alert notification dispatched")

	return &Outcome{OK: true, Notified: true, StationID: stationID, OwnerID: ownerID}, nil
}

func (e *Engine) skip(stationID, status, reason string) *Outcome {
	e.logger.Debug().
		Str("station_id", stationID).
		Str("status", status).
		Str("reason", reason).
		Msg("alert candidate skipped")
	return skipped(reason)
}

// checkSnapshot compares the event's policy snapshot against the live
// config. Disagreement is expected only around concurrent edits; it is
// logged so operators can spot stale producers, and the live config wins.
func (e *Engine) checkSnapshot(event *Event, st *station.Station) {
	if event.OwnerID == "" && event.NotifyOn == "" {
		return
	}
	if event.OwnerID != st.OwnerID ||
		station.ParseNotifyPolicy(event.NotifyOn) != station.ParseNotifyPolicy(string(st.NotifyOn)) {
		e.logger.Warn().
			Str("station_id", st.ID).
			Str("snapshot_owner_id", event.OwnerID).
			Str("live_owner_id", st.OwnerID).
			Msg("event policy snapshot disagrees with live config; using live config")
	}
}

func buildNotification(topic, stationID, ownerID, status string, event *Event) *Notification {
	subject := fmt.Sprintf("METAR %s - %s", strings.ToUpper(status), stationID)
	if len(subject) > MaxSubjectLength {
		subject = subject[:MaxSubjectLength]
	}

	errText := event.ErrorMessage
	if errText == "" {
		errText = "N/A"
	}

	body := fmt.Sprintf(
		"Station: %s\nStatus: %s\nChecked At UTC: %s\nSource URL: %s\nError: %s\n",
		stationID, status, event.CheckedAtUTC, event.SourceURL, errText,
	)

	return &Notification{
		Topic:   topic,
		Subject: subject,
		Body:    body,
		Attributes: map[string]string{
			"station_id": stationID,
			"owner_id":   ownerID,
			"status":     status,
		},
	}
}
