// Package metar provides fetching, parsing and persistence of METAR
// aviation weather observations.
package metar

import "time"

// Observation is a single METAR report for a station.
//
// Weather fields are kept as the feed's string values; the system stores and
// serves them for display and never computes on them.
type Observation struct {
	StationID       string
	ObservationTime time.Time

	TempC               string
	DewpointC           string
	WindDirDegrees      string
	WindSpeedKt         string
	VisibilityStatuteMi string
	AltimInHg           string
	FlightCategory      string
	RawText             string

	// CollectedAt is the collection run that persisted this observation.
	CollectedAt time.Time
}
