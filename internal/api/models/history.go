package models

// Run is the read model for one collection run.
type Run struct {
	CheckedAt    Timestamp `json:"checkedAt"`
	Status       string    `json:"status"`
	StationIDs   []string  `json:"stationIds"`
	SourceURL    string    `json:"sourceUrl,omitempty"`
	MetarCount   int       `json:"metarCount"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// RunList wraps a run history response.
type RunList struct {
	Runs  []Run `json:"runs"`
	Limit int   `json:"limit"`
}

// Observation is the read model for one stored METAR observation.
type Observation struct {
	StationID           string    `json:"stationId"`
	ObservationTime     Timestamp `json:"observationTime"`
	TempC               string    `json:"tempC,omitempty"`
	DewpointC           string    `json:"dewpointC,omitempty"`
	WindDirDegrees      string    `json:"windDirDegrees,omitempty"`
	WindSpeedKt         string    `json:"windSpeedKt,omitempty"`
	VisibilityStatuteMi string    `json:"visibilityStatuteMi,omitempty"`
	AltimInHg           string    `json:"altimInHg,omitempty"`
	FlightCategory      string    `json:"flightCategory,omitempty"`
	RawText             string    `json:"rawText,omitempty"`
	CollectedAt         Timestamp `json:"collectedAt"`
}

// ObservationList wraps an observation history response.
type ObservationList struct {
	StationID    string        `json:"stationId"`
	Observations []Observation `json:"observations"`
	Limit        int           `json:"limit"`
}
