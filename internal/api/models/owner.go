package models

// OwnerRequest is the write model for a station owner.
type OwnerRequest struct {
	OwnerID       string `json:"ownerId"`
	Topic         string `json:"topic"`
	AlertsEnabled *bool  `json:"alertsEnabled,omitempty"`
}

// Validate validates an owner write request.
func (r *OwnerRequest) Validate() []FieldError {
	var errors []FieldError

	if r.OwnerID == "" {
		errors = append(errors, FieldError{
			Field:   "ownerId",
			Message: "owner id is required",
			Code:    "REQUIRED",
		})
	}
	if r.Topic == "" {
		errors = append(errors, FieldError{
			Field:   "topic",
			Message: "notification topic is required",
			Code:    "REQUIRED",
		})
	}

	return errors
}

// Owner is the read model for a station owner.
type Owner struct {
	OwnerID       string    `json:"ownerId"`
	Topic         string    `json:"topic"`
	AlertsEnabled bool      `json:"alertsEnabled"`
	UpdatedAt     Timestamp `json:"updatedAt"`
}

// OwnerList wraps an owner collection response.
type OwnerList struct {
	Owners []Owner `json:"owners"`
}
