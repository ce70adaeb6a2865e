// Package run provides the append-only collection run log.
package run

import "time"

// Status classifies the outcome of one collection attempt.
type Status string

const (
	StatusOK    Status = "ok"
	StatusEmpty Status = "empty"
	StatusError Status = "error"
)

// Run records a single collection attempt. Runs are write-once and expire
// after a retention window; nothing mutates them after Append.
type Run struct {
	CheckedAt    time.Time
	Status       Status
	StationIDs   []string
	SourceURL    string
	MetarCount   int
	ErrorMessage string
	ExpiresAt    time.Time
}
