// Package httphandler is the HTTP driving adapter exposing the REST API.
// Every route except the health check requires a Bearer session token;
// the token subject is the user ID that scopes all persistence calls.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lectern-notes/lectern/internal/application"
	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	generateSvc   *application.GenerateService
	credentialSvc *application.CredentialService
	noteStore     driven.NoteStore
	folderStore   driven.FolderStore
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	generateSvc *application.GenerateService,
	credentialSvc *application.CredentialService,
	noteStore driven.NoteStore,
	folderStore driven.FolderStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		generateSvc:   generateSvc,
		credentialSvc: credentialSvc,
		noteStore:     noteStore,
		folderStore:   folderStore,
		logger:        logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with auth, logging, and recovery middleware. The health check stays outside
// the auth wrapper so load balancers can probe it without a token.
func NewServeMux(h *Handler, sessionSecret []byte, logger *slog.Logger) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST /api/v1/notes/generate", h.GenerateNotes)
	api.HandleFunc("GET /api/v1/notes", h.ListNotes)
	api.HandleFunc("GET /api/v1/notes/{id}", h.GetNote)
	api.HandleFunc("PATCH /api/v1/notes/{id}", h.UpdateNote)
	api.HandleFunc("DELETE /api/v1/notes/{id}", h.DeleteNote)
	api.HandleFunc("GET /api/v1/notes/{id}/export", h.ExportNote)
	api.HandleFunc("GET /api/v1/folders", h.ListFolders)
	api.HandleFunc("POST /api/v1/folders", h.CreateFolder)
	api.HandleFunc("PATCH /api/v1/folders/{id}", h.UpdateFolder)
	api.HandleFunc("DELETE /api/v1/folders/{id}", h.DeleteFolder)
	api.HandleFunc("POST /api/v1/user/api-key", h.SetAPIKey)
	api.HandleFunc("DELETE /api/v1/user/api-key", h.DeleteAPIKey)
	api.HandleFunc("GET /api/v1/user/api-key/status", h.APIKeyStatus)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("/api/v1/", authMiddleware(sessionSecret, api))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
