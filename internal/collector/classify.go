// Package collector turns upstream METAR fetches into per-station outcome
// classifications, persisted observations and alert-candidate events.
package collector

import (
	"time"

	"github.com/metarwatch/metarwatch/internal/metar"
)

// Per-station outcome classes.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

// Classify maps each station id to an outcome class given the parsed
// observations of one fetch. It is deterministic in its inputs so the
// decision engine can be tested without network behavior.
//
// A station with at least one observation is ok; with none, empty. When
// staleAfter is positive, a station whose newest observation is older than
// staleAfter relative to checkedAt is reclassified as error: the feed is
// answering but the station has stopped reporting. Stale reclassification
// is opt-in and disabled by default.
func Classify(stationIDs []string, observations []*metar.Observation, checkedAt time.Time, staleAfter time.Duration) map[string]string {
	newest := make(map[string]time.Time, len(stationIDs))
	for _, o := range observations {
		if t, ok := newest[o.StationID]; !ok || o.ObservationTime.After(t) {
			newest[o.StationID] = o.ObservationTime
		}
	}

	statuses := make(map[string]string, len(stationIDs))
	for _, id := range stationIDs {
		latest, ok := newest[id]
		switch {
		case !ok:
			statuses[id] = StatusEmpty
		case staleAfter > 0 && checkedAt.Sub(latest) > staleAfter:
			statuses[id] = StatusError
		default:
			statuses[id] = StatusOK
		}
	}

	return statuses
}
