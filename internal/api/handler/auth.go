package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/metarwatch/metarwatch/internal/api/models"
	"github.com/metarwatch/metarwatch/internal/api/response"
	"github.com/metarwatch/metarwatch/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Bootstrap handles POST /v1/auth/bootstrap - create the first admin account.
func (h *AuthHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	var req auth.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	admin, err := h.authService.Bootstrap(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrAlreadyBootstrapped) {
			response.Conflict(w, r, "an admin account already exists")
			return
		}
		response.InternalError(w, r, "bootstrap failed")
		return
	}

	response.Created(w, r, "", admin)
}

// Login handles POST /v1/auth/login - admin credentials for an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	tokenResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "invalid credentials")
			return
		}
		response.InternalError(w, r, "login failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokenResp)
}

// RequestPasswordReset handles POST /v1/auth/reset - issue a reset code.
//
// The code is delivered out of band by the operator watching the service
// logs; it never appears in the HTTP response, and unknown usernames get
// the same 202 so the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	if _, err := h.authService.RequestPasswordReset(r.Context(), &req); err != nil {
		response.InternalError(w, r, "password reset failed")
		return
	}

	response.Accepted(w, r, "", nil)
}

// ConfirmPasswordReset handles POST /v1/auth/reset/confirm - set a new
// password with a reset code.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	if err := h.authService.ConfirmPasswordReset(r.Context(), &req); err != nil {
		if errors.Is(err, auth.ErrInvalidResetCode) {
			response.Unauthorized(w, r, "invalid or expired reset code")
			return
		}
		response.InternalError(w, r, "password reset failed")
		return
	}

	response.NoContent(w, r)
}

// fieldErrors converts auth validation errors to API field errors.
func fieldErrors(errs []auth.FieldError) []models.FieldError {
	out := make([]models.FieldError, len(errs))
	for i, e := range errs {
		out[i] = models.FieldError{
			Field:   e.Field,
			Message: e.Message,
			Code:    e.Code,
		}
	}
	return out
}
