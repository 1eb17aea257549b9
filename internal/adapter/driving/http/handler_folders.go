package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lectern-notes/lectern/internal/domain/model"
	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

// ListFolders returns the caller's folders with note counts, plus how many
// notes sit outside any folder.
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folderStore.ListByUser(r.Context(), userID(r))
	if err != nil {
		h.logger.Error("failed to list folders", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	_, unorganized, err := h.noteStore.ListByUser(r.Context(), userID(r), driven.NoteFilter{
		Unorganized: true,
		Limit:       1,
	})
	if err != nil {
		h.logger.Error("failed to count unorganized notes", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := FolderListResponse{
		Folders:          make([]FolderResponse, 0, len(folders)),
		UnorganizedCount: unorganized,
		TotalNotes:       unorganized,
	}
	for _, folder := range folders {
		resp.Folders = append(resp.Folders, toFolderResponse(folder))
		resp.TotalNotes += folder.NoteCount
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateFolder creates a folder for the caller. Names are unique per user.
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "folder name is required")
		return
	}

	folder := model.Folder{
		ID:        uuid.NewString(),
		UserID:    userID(r),
		Name:      name,
		Color:     req.Color,
		Icon:      req.Icon,
		CreatedAt: time.Now().UTC(),
	}
	if folder.Color == "" {
		folder.Color = model.DefaultFolderColor
	}

	if err := h.folderStore.Insert(r.Context(), folder); err != nil {
		if errors.Is(err, driven.ErrFolderAlreadyExists) {
			writeError(w, http.StatusBadRequest, "a folder with this name already exists")
			return
		}
		h.logger.Error("failed to create folder", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toFolderResponse(folder))
}

type updateFolderRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// UpdateFolder applies a partial update to a folder's name, color, or icon.
func (h *Handler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	var req updateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := driven.FolderUpdate{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	}
	if !update.HasChanges() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		writeError(w, http.StatusBadRequest, "folder name cannot be empty")
		return
	}

	folder, err := h.folderStore.Update(r.Context(), userID(r), r.PathValue("id"), update)
	if err != nil {
		switch {
		case errors.Is(err, driven.ErrFolderNotFound):
			writeError(w, http.StatusNotFound, "folder not found")
		case errors.Is(err, driven.ErrFolderAlreadyExists):
			writeError(w, http.StatusBadRequest, "a folder with this name already exists")
		default:
			h.logger.Error("failed to update folder", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toFolderResponse(*folder))
}

// DeleteFolder removes a folder. Its notes are detached, not deleted.
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.folderStore.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		if errors.Is(err, driven.ErrFolderNotFound) {
			writeError(w, http.StatusNotFound, "folder not found")
			return
		}
		h.logger.Error("failed to delete folder", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
