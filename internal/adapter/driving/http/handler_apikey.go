package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lectern-notes/lectern/internal/application"
	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

// SetAPIKey validates and stores the caller's generation-service API key.
// The key is checked upstream before it is accepted, so a 200 here means
// generation is ready to use.
func (h *Handler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req SetAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.credentialSvc.SetKey(r.Context(), userID(r), req.APIKey)
	if err != nil {
		var genErr *driven.GenerationError
		switch {
		case errors.Is(err, application.ErrKeyTooShort):
			writeError(w, http.StatusBadRequest, "API key is too short")
		case errors.Is(err, application.ErrKeyRejected):
			writeError(w, http.StatusBadRequest, "API key was rejected by the generation service")
		case errors.As(err, &genErr):
			h.logger.Error("key validation unavailable", "status", genErr.StatusCode, "error", err)
			writeError(w, http.StatusBadGateway, "could not reach the generation service to validate the key")
		default:
			h.logger.Error("failed to store API key", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	status, err := h.credentialSvc.Status(r.Context(), userID(r))
	if err != nil {
		h.logger.Error("failed to read key status", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toKeyStatusResponse(status))
}

// DeleteAPIKey clears the caller's stored key. Idempotent.
func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	if err := h.credentialSvc.DeleteKey(r.Context(), userID(r)); err != nil {
		h.logger.Error("failed to delete API key", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// APIKeyStatus reports whether a key is stored and believed valid. The key
// itself is never returned.
func (h *Handler) APIKeyStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.credentialSvc.Status(r.Context(), userID(r))
	if err != nil {
		h.logger.Error("failed to read key status", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toKeyStatusResponse(status))
}
