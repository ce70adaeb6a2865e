package models

// StationRequest is the write model for a monitored station.
type StationRequest struct {
	StationID       string `json:"stationId"`
	Enabled         *bool  `json:"enabled,omitempty"`
	OwnerID         string `json:"ownerId,omitempty"`
	NotifyOn        string `json:"notifyOn"`
	CooldownMinutes int    `json:"cooldownMinutes"`
	AlertsEnabled   *bool  `json:"alertsEnabled,omitempty"`
}

// Validate validates a station write request. Writes are strict about the
// notify policy; the lenient fallback applies only when reading events.
func (r *StationRequest) Validate() []FieldError {
	var errors []FieldError

	if r.StationID == "" {
		errors = append(errors, FieldError{
			Field:   "stationId",
			Message: "station id is required",
			Code:    "REQUIRED",
		})
	}
	switch r.NotifyOn {
	case "error", "empty", "both":
	default:
		errors = append(errors, FieldError{
			Field:   "notifyOn",
			Message: "notifyOn must be one of: error, empty, both",
			Code:    "INVALID_VALUE",
		})
	}
	if r.CooldownMinutes < 0 {
		errors = append(errors, FieldError{
			Field:   "cooldownMinutes",
			Message: "cooldownMinutes must not be negative",
			Code:    "INVALID_VALUE",
		})
	}

	return errors
}

// Station is the read model for a monitored station.
type Station struct {
	StationID       string    `json:"stationId"`
	Enabled         bool      `json:"enabled"`
	OwnerID         string    `json:"ownerId,omitempty"`
	NotifyOn        string    `json:"notifyOn"`
	CooldownMinutes int       `json:"cooldownMinutes"`
	AlertsEnabled   bool      `json:"alertsEnabled"`
	UpdatedAt       Timestamp `json:"updatedAt"`
}

// StationList wraps a station collection response.
type StationList struct {
	Stations []Station `json:"stations"`
}
