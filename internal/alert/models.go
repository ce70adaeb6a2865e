// Package alert implements the alert decision engine: given one candidate
// event from the collector, it decides whether a notification should be
// sent, dispatches it, and records a cooldown marker to suppress duplicates
// during a sustained incident.
package alert

import "time"

// Event is an alert candidate produced by the collector for one non-ok
// station outcome. Unknown JSON fields are ignored.
//
// The owner/policy fields are a snapshot of the station config at emission
// time. The engine treats them as a hint only; the live config store is
// authoritative for every decision.
type Event struct {
	StationID    string `json:"station_id"`
	Status       string `json:"status"`
	CheckedAtUTC string `json:"checked_at_utc"`
	SourceURL    string `json:"source_url"`
	ErrorMessage string `json:"error_message,omitempty"`

	// Policy snapshot (hint only).
	OwnerID         string `json:"owner_id,omitempty"`
	NotifyOn        string `json:"notify_on,omitempty"`
	CooldownMinutes int    `json:"cooldown_minutes,omitempty"`
	AlertsEnabled   bool   `json:"alerts_enabled,omitempty"`
}

// Outcome classes eligible for alerting.
const (
	StatusError = "error"
	StatusEmpty = "empty"
)

// Skip reason codes. These are part of the observable contract; operators
// and tests key off them.
const (
	SkipInvalidEvent          = "invalid-event"
	SkipStationNotFound       = "station-not-found"
	SkipStationAlertsDisabled = "station-alerts-disabled"
	SkipNotifyPolicy          = "notify-policy"
	SkipNoOwner               = "no-owner"
	SkipOwnerNotFound         = "owner-not-found"
	SkipOwnerAlertsDisabled   = "owner-alerts-disabled"
	SkipNoOwnerTopic          = "no-owner-topic"
	SkipCooldown              = "cooldown"
)

// Outcome is the structured result of one decision.
type Outcome struct {
	OK        bool   `json:"ok"`
	Notified  bool   `json:"notified"`
	StationID string `json:"station_id,omitempty"`
	OwnerID   string `json:"owner_id,omitempty"`
	Skipped   string `json:"skipped,omitempty"`
}

func skipped(reason string) *Outcome {
	return &Outcome{OK: true, Skipped: reason}
}

// CooldownMarker is the durable record of the last notification sent for a
// (station, outcome-class) pair. A single marker exists per pair; it is
// overwritten on each notification, never appended.
type CooldownMarker struct {
	StationID    string
	Status       string
	LastNotified time.Time

	// CooldownMinutes is the window in effect when the marker was
	// written. Informational; decisions use the station's current
	// configured value.
	CooldownMinutes int

	// ExpiresAt bounds storage retention, independent of cooldown length.
	ExpiresAt time.Time
}
