package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/metarwatch/metarwatch/internal/api/models"
	"github.com/metarwatch/metarwatch/internal/api/response"
	"github.com/metarwatch/metarwatch/internal/history"
	"github.com/metarwatch/metarwatch/internal/metar"
	"github.com/metarwatch/metarwatch/internal/run"
)

// HistoryHandler handles history read endpoints.
type HistoryHandler struct {
	service *history.Service
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(service *history.Service) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// ListRuns handles GET /v1/history/runs?limit=.
func (h *HistoryHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	runs, err := h.service.RecentRuns(r.Context(), limit)
	if err != nil {
		response.InternalError(w, r, "loading run history failed")
		return
	}

	out := models.RunList{
		Runs:  make([]models.Run, len(runs)),
		Limit: history.ClampLimit(limit),
	}
	for i, rec := range runs {
		out.Runs[i] = runToModel(rec)
	}
	response.JSON(w, r, http.StatusOK, out)
}

// ListObservations handles GET /v1/history/metars?station=&limit=.
func (h *HistoryHandler) ListObservations(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	resolved, err := h.service.ResolveStation(r.URL.Query().Get("station"))
	if err != nil {
		if errors.Is(err, history.ErrNoStation) {
			response.BadRequest(w, r, "no station specified and no default configured", []models.FieldError{{
				Field:   "station",
				Message: "station is required",
				Code:    "REQUIRED",
			}})
			return
		}
		response.InternalError(w, r, "loading observation history failed")
		return
	}

	observations, err := h.service.StationObservations(r.Context(), resolved, limit)
	if err != nil {
		response.InternalError(w, r, "loading observation history failed")
		return
	}

	out := models.ObservationList{
		StationID:    resolved,
		Observations: make([]models.Observation, len(observations)),
		Limit:        history.ClampLimit(limit),
	}
	for i, o := range observations {
		out.Observations[i] = observationToModel(o)
	}
	response.JSON(w, r, http.StatusOK, out)
}

// parseLimit reads the optional limit query parameter. Zero means
// "use the default"; non-numeric input is a validation error.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(w, r, "limit must be an integer", []models.FieldError{{
			Field:   "limit",
			Message: "limit must be an integer",
			Code:    "INVALID_VALUE",
		}})
		return 0, false
	}
	return limit, true
}

func runToModel(rec *run.Run) models.Run {
	return models.Run{
		CheckedAt:    models.Timestamp(rec.CheckedAt),
		Status:       string(rec.Status),
		StationIDs:   rec.StationIDs,
		SourceURL:    rec.SourceURL,
		MetarCount:   rec.MetarCount,
		ErrorMessage: rec.ErrorMessage,
	}
}

func observationToModel(o *metar.Observation) models.Observation {
	return models.Observation{
		StationID:           o.StationID,
		ObservationTime:     models.Timestamp(o.ObservationTime),
		TempC:               o.TempC,
		DewpointC:           o.DewpointC,
		WindDirDegrees:      o.WindDirDegrees,
		WindSpeedKt:         o.WindSpeedKt,
		VisibilityStatuteMi: o.VisibilityStatuteMi,
		AltimInHg:           o.AltimInHg,
		FlightCategory:      o.FlightCategory,
		RawText:             o.RawText,
		CollectedAt:         models.Timestamp(o.CollectedAt),
	}
}
