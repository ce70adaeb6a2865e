package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/metarwatch/metarwatch/internal/alert"
	"github.com/metarwatch/metarwatch/internal/api/models"
	"github.com/metarwatch/metarwatch/internal/api/response"
	"github.com/metarwatch/metarwatch/internal/station"
)

// StationHandler handles station configuration endpoints.
type StationHandler struct {
	stations station.Repository
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(stations station.Repository) *StationHandler {
	return &StationHandler{stations: stations}
}

// ListStations handles GET /v1/stations.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.stations.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "listing stations failed")
		return
	}

	out := models.StationList{Stations: make([]models.Station, len(stations))}
	for i, s := range stations {
		out.Stations[i] = stationToModel(s)
	}
	response.JSON(w, r, http.StatusOK, out)
}

// GetStation handles GET /v1/stations/{stationId}.
func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	id := station.NormalizeID(chi.URLParam(r, "stationId"))

	s, err := h.stations.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			response.NotFound(w, r, "station not found")
			return
		}
		response.InternalError(w, r, "loading station failed")
		return
	}

	response.JSON(w, r, http.StatusOK, stationToModel(s))
}

// PutStation handles PUT /v1/stations/{stationId} - create or replace a
// station configuration.
func (h *StationHandler) PutStation(w http.ResponseWriter, r *http.Request) {
	var req models.StationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	req.StationID = station.NormalizeID(chi.URLParam(r, "stationId"))

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", errs)
		return
	}

	cooldown := req.CooldownMinutes
	if cooldown == 0 {
		cooldown = alert.DefaultCooldownMinutes
	}
	s := &station.Station{
		ID:              req.StationID,
		Enabled:         req.Enabled == nil || *req.Enabled,
		OwnerID:         req.OwnerID,
		NotifyOn:        station.NotifyPolicy(req.NotifyOn),
		CooldownMinutes: cooldown,
		AlertsEnabled:   req.AlertsEnabled == nil || *req.AlertsEnabled,
		UpdatedAt:       time.Now().UTC(),
	}
	if err := h.stations.Put(r.Context(), s); err != nil {
		response.InternalError(w, r, "storing station failed")
		return
	}

	response.JSON(w, r, http.StatusOK, stationToModel(s))
}

// DeleteStation handles DELETE /v1/stations/{stationId}.
func (h *StationHandler) DeleteStation(w http.ResponseWriter, r *http.Request) {
	id := station.NormalizeID(chi.URLParam(r, "stationId"))

	if err := h.stations.Delete(r.Context(), id); err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			response.NotFound(w, r, "station not found")
			return
		}
		response.InternalError(w, r, "deleting station failed")
		return
	}

	response.NoContent(w, r)
}

func stationToModel(s *station.Station) models.Station {
	return models.Station{
		StationID:       s.ID,
		Enabled:         s.Enabled,
		OwnerID:         s.OwnerID,
		NotifyOn:        string(s.NotifyOn),
		CooldownMinutes: s.CooldownMinutes,
		AlertsEnabled:   s.AlertsEnabled,
		UpdatedAt:       models.Timestamp(s.UpdatedAt),
	}
}
