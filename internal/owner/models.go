// Package owner provides notification recipient configuration and persistence.
package owner

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrOwnerNotFound = errors.New("owner not found")
)

// Owner is a notification recipient for station alerts.
type Owner struct {
	// ID is the unique owner identifier.
	ID string

	// Topic is the Pub/Sub topic the owner's notifications are published
	// to. Empty means the owner has no notification channel.
	Topic string

	// AlertsEnabled is the owner-level kill switch.
	AlertsEnabled bool

	UpdatedAt time.Time
}
