// Package station provides monitored station configuration and persistence.
package station

import (
	"errors"
	"strings"
	"time"
)

// Repository errors.
var (
	ErrStationNotFound = errors.New("station not found")
)

// NotifyPolicy controls which outcome classes trigger a notification.
type NotifyPolicy string

const (
	NotifyOnError NotifyPolicy = "error"
	NotifyOnEmpty NotifyPolicy = "empty"
	NotifyOnBoth  NotifyPolicy = "both"
)

// ParseNotifyPolicy normalizes a raw notify_on value. Unrecognized values
// fall back to NotifyOnBoth so a misconfigured station still alerts.
func ParseNotifyPolicy(raw string) NotifyPolicy {
	switch NotifyPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case NotifyOnError:
		return NotifyOnError
	case NotifyOnEmpty:
		return NotifyOnEmpty
	default:
		return NotifyOnBoth
	}
}

// Valid reports whether p is one of the recognized policy values.
func (p NotifyPolicy) Valid() bool {
	switch p {
	case NotifyOnError, NotifyOnEmpty, NotifyOnBoth:
		return true
	}
	return false
}

// Allows reports whether the policy passes the given outcome class.
func (p NotifyPolicy) Allows(status string) bool {
	if status != "error" && status != "empty" {
		return false
	}
	if p == NotifyOnBoth {
		return true
	}
	return status == string(p)
}

// Station is the configuration for one monitored METAR station.
type Station struct {
	// ID is the ICAO station identifier, normalized to upper case.
	ID string

	// Enabled controls whether the collector includes this station.
	Enabled bool

	// OwnerID references the notification recipient. Empty means the
	// station has no routing target.
	OwnerID string

	// NotifyOn selects which outcome classes trigger notification.
	NotifyOn NotifyPolicy

	// CooldownMinutes is the minimum spacing between notifications for
	// the same (station, outcome-class) pair.
	CooldownMinutes int

	// AlertsEnabled is the station-level kill switch.
	AlertsEnabled bool

	UpdatedAt time.Time
}

// NormalizeID uppercases and trims a raw station identifier.
func NormalizeID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
