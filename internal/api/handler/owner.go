package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/metarwatch/metarwatch/internal/api/models"
	"github.com/metarwatch/metarwatch/internal/api/response"
	"github.com/metarwatch/metarwatch/internal/owner"
)

// OwnerHandler handles owner configuration endpoints.
type OwnerHandler struct {
	owners owner.Repository
}

// NewOwnerHandler creates a new OwnerHandler.
func NewOwnerHandler(owners owner.Repository) *OwnerHandler {
	return &OwnerHandler{owners: owners}
}

// ListOwners handles GET /v1/owners.
func (h *OwnerHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.owners.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "listing owners failed")
		return
	}

	out := models.OwnerList{Owners: make([]models.Owner, len(owners))}
	for i, o := range owners {
		out.Owners[i] = ownerToModel(o)
	}
	response.JSON(w, r, http.StatusOK, out)
}

// GetOwner handles GET /v1/owners/{ownerId}.
func (h *OwnerHandler) GetOwner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ownerId")

	o, err := h.owners.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, owner.ErrOwnerNotFound) {
			response.NotFound(w, r, "owner not found")
			return
		}
		response.InternalError(w, r, "loading owner failed")
		return
	}

	response.JSON(w, r, http.StatusOK, ownerToModel(o))
}

// PutOwner handles PUT /v1/owners/{ownerId} - create or replace an owner.
func (h *OwnerHandler) PutOwner(w http.ResponseWriter, r *http.Request) {
	var req models.OwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	req.OwnerID = chi.URLParam(r, "ownerId")

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", errs)
		return
	}

	o := &owner.Owner{
		ID:            req.OwnerID,
		Topic:         req.Topic,
		AlertsEnabled: req.AlertsEnabled == nil || *req.AlertsEnabled,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := h.owners.Put(r.Context(), o); err != nil {
		response.InternalError(w, r, "storing owner failed")
		return
	}

	response.JSON(w, r, http.StatusOK, ownerToModel(o))
}

// DeleteOwner handles DELETE /v1/owners/{ownerId}.
func (h *OwnerHandler) DeleteOwner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ownerId")

	if err := h.owners.Delete(r.Context(), id); err != nil {
		if errors.Is(err, owner.ErrOwnerNotFound) {
			response.NotFound(w, r, "owner not found")
			return
		}
		response.InternalError(w, r, "deleting owner failed")
		return
	}

	response.NoContent(w, r)
}

func ownerToModel(o *owner.Owner) models.Owner {
	return models.Owner{
		OwnerID:       o.ID,
		Topic:         o.Topic,
		AlertsEnabled: o.AlertsEnabled,
		UpdatedAt:     models.Timestamp(o.UpdatedAt),
	}
}
