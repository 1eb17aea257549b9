package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lectern-notes/lectern/internal/application"
	"github.com/lectern-notes/lectern/internal/domain/model"
	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
	previewLength    = 200
)

// GenerateNotes runs the transcript-to-notes pipeline for the caller's
// transcript and returns the stored note, flagged as cached when an
// identical transcript was already processed.
func (h *Handler) GenerateNotes(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.generateSvc.Generate(r.Context(), userID(r), application.GenerateRequest{
		Transcript:  req.Transcript,
		Title:       req.Title,
		LectureDate: req.LectureDate,
		LectureURL:  req.LectureURL,
	})
	if err != nil {
		h.writeGenerateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGenerateResponse(result))
}

// writeGenerateError maps pipeline failures onto HTTP statuses. Caller
// mistakes and fixable credential problems are 4xx; upstream and internal
// failures are 5xx with the detail kept out of the response body.
func (h *Handler) writeGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	var genErr *driven.GenerationError

	switch {
	case errors.Is(err, application.ErrTranscriptRequired),
		errors.Is(err, application.ErrEmptyTranscript):
		writeError(w, http.StatusBadRequest, "transcript is required")
	case errors.Is(err, application.ErrTranscriptTooLong):
		writeError(w, http.StatusBadRequest, "transcript exceeds the maximum length")
	case errors.Is(err, driven.ErrNoCredential):
		writeError(w, http.StatusBadRequest, "no API key configured: add one in settings before generating notes")
	case errors.As(err, &genErr) && genErr.IsAuthFailure():
		// The validity flag has already been flipped; the status endpoint
		// tells the user which key to replace.
		writeError(w, http.StatusInternalServerError, "failed to generate notes: your API key was rejected, update it in settings and try again")
	case errors.As(err, &genErr):
		h.logger.Error("generation service failure", "status", genErr.StatusCode, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate notes: the generation service is unavailable, try again shortly")
	case errors.Is(err, driven.ErrMalformedResponse):
		h.logger.Error("malformed generation response", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate notes: the generation service returned an unusable response")
	default:
		h.logger.Error("failed to generate notes", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ListNotes returns the caller's notes, newest first, filtered by folder and
// title search, with tag-stripped previews instead of full HTML.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := driven.NoteFilter{
		Search: q.Get("search"),
		Limit:  defaultPageLimit,
	}

	switch folder := q.Get("folder_id"); folder {
	case "":
	case "unorganized", "null", "none":
		filter.Unorganized = true
	default:
		filter.FolderID = folder
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = min(limit, maxPageLimit)
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = offset
	}

	notes, total, err := h.noteStore.ListByUser(r.Context(), userID(r), filter)
	if err != nil {
		h.logger.Error("failed to list notes", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	folders, err := h.folderIndex(r)
	if err != nil {
		h.logger.Error("failed to list folders", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := NoteListResponse{Notes: make([]NoteSummary, 0, len(notes)), Total: total}
	for _, note := range notes {
		resp.Notes = append(resp.Notes, toNoteSummary(note, folders[note.FolderID]))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetNote returns a single note with its full HTML and raw transcript.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.noteStore.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, driven.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		h.logger.Error("failed to get note", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	folders, err := h.folderIndex(r)
	if err != nil {
		h.logger.Error("failed to list folders", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(*note, folders[note.FolderID]))
}

// updateNoteRequest distinguishes an absent folder_id from an explicit null:
// absent leaves the folder unchanged, null detaches the note.
type updateNoteRequest struct {
	Title       *string          `json:"title"`
	LectureDate *string          `json:"lecture_date"`
	FolderID    *json.RawMessage `json:"folder_id"`
}

// UpdateNote applies a partial update to a note's title, date, or folder.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := model.NoteUpdate{
		Title:       req.Title,
		LectureDate: req.LectureDate,
	}
	if req.FolderID != nil {
		var folderID string
		if string(*req.FolderID) != "null" {
			if err := json.Unmarshal(*req.FolderID, &folderID); err != nil {
				writeError(w, http.StatusBadRequest, "folder_id must be a string or null")
				return
			}
		}
		update.FolderID = &folderID
	}

	if !update.HasChanges() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if update.Title != nil && *update.Title == "" {
		writeError(w, http.StatusBadRequest, "title cannot be empty")
		return
	}

	note, err := h.noteStore.Update(r.Context(), userID(r), r.PathValue("id"), update)
	if err != nil {
		if errors.Is(err, driven.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		h.logger.Error("failed to update note", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	folders, err := h.folderIndex(r)
	if err != nil {
		h.logger.Error("failed to list folders", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(*note, folders[note.FolderID]))
}

// DeleteNote removes a note permanently.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.noteStore.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		if errors.Is(err, driven.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		h.logger.Error("failed to delete note", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportNote serves a note as a downloadable document in the requested format.
func (h *Handler) ExportNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.noteStore.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, driven.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		h.logger.Error("failed to get note", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = application.ExportFormatHTML
	}

	body, contentType, filename, err := application.Export(*note, format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(body))
}

// folderIndex loads the caller's folders keyed by ID for embedding folder
// summaries on note responses.
func (h *Handler) folderIndex(r *http.Request) (map[string]*FolderInfo, error) {
	folders, err := h.folderStore.ListByUser(r.Context(), userID(r))
	if err != nil {
		return nil, err
	}

	index := make(map[string]*FolderInfo, len(folders))
	for _, folder := range folders {
		index[folder.ID] = &FolderInfo{
			ID:    folder.ID,
			Name:  folder.Name,
			Color: folder.Color,
			Icon:  folder.Icon,
		}
	}
	return index, nil
}
