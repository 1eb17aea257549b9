package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lectern-notes/lectern/internal/application"
	"github.com/lectern-notes/lectern/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// GenerateRequest is the JSON body for the generate endpoint.
type GenerateRequest struct {
	Transcript  string `json:"transcript"`
	Title       string `json:"title"`
	LectureDate string `json:"lecture_date"`
	LectureURL  string `json:"lecture_url"`
}

// GenerateResponse is the JSON result of the generate endpoint.
type GenerateResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	NotesHTML string `json:"notes_html"`
	CreatedAt string `json:"created_at"`
	Cached    bool   `json:"cached"`
}

// FolderInfo is the embedded folder summary on note responses.
type FolderInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

// NoteSummary is the list-view representation of a note: a tag-stripped
// preview instead of the full HTML.
type NoteSummary struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	LectureDate string      `json:"lecture_date,omitempty"`
	Preview     string      `json:"preview"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	FolderID    string      `json:"folder_id,omitempty"`
	Folder      *FolderInfo `json:"folder,omitempty"`
}

// NoteListResponse is the JSON result of the list-notes endpoint.
type NoteListResponse struct {
	Notes []NoteSummary `json:"notes"`
	Total int           `json:"total"`
}

// NoteResponse is the full single-note representation.
type NoteResponse struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	LectureDate   string      `json:"lecture_date,omitempty"`
	NotesHTML     string      `json:"notes_html"`
	RawTranscript string      `json:"raw_transcript"`
	LectureURL    string      `json:"lecture_url,omitempty"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
	FolderID      string      `json:"folder_id,omitempty"`
	Folder        *FolderInfo `json:"folder,omitempty"`
}

// FolderResponse is the JSON representation of a folder.
type FolderResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon,omitempty"`
	NoteCount int    `json:"note_count"`
	CreatedAt string `json:"created_at"`
}

// FolderListResponse is the JSON result of the list-folders endpoint.
type FolderListResponse struct {
	Folders          []FolderResponse `json:"folders"`
	UnorganizedCount int              `json:"unorganized_count"`
	TotalNotes       int              `json:"total_notes"`
}

// CreateFolderRequest is the JSON body for the create-folder endpoint.
type CreateFolderRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// SetAPIKeyRequest is the JSON body for the set-api-key endpoint.
type SetAPIKeyRequest struct {
	APIKey string `json:"api_key"`
}

// KeyStatusResponse is the JSON result of the key status endpoint. The key
// itself never appears here.
type KeyStatusResponse struct {
	HasKey       bool    `json:"has_key"`
	IsValid      bool    `json:"is_valid"`
	LastVerified *string `json:"last_verified"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toGenerateResponse(result *application.GenerateResult) GenerateResponse {
	return GenerateResponse{
		ID:        result.Note.ID,
		Title:     result.Note.Title,
		NotesHTML: result.Note.NotesHTML,
		CreatedAt: result.Note.CreatedAt.UTC().Format(time.RFC3339),
		Cached:    result.Cached,
	}
}

func toNoteSummary(note model.Note, folder *FolderInfo) NoteSummary {
	return NoteSummary{
		ID:          note.ID,
		Title:       note.Title,
		LectureDate: note.LectureDate,
		Preview:     application.NotePreview(note.NotesHTML, previewLength),
		CreatedAt:   note.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   note.UpdatedAt.UTC().Format(time.RFC3339),
		FolderID:    note.FolderID,
		Folder:      folder,
	}
}

func toNoteResponse(note model.Note, folder *FolderInfo) NoteResponse {
	return NoteResponse{
		ID:            note.ID,
		Title:         note.Title,
		LectureDate:   note.LectureDate,
		NotesHTML:     note.NotesHTML,
		RawTranscript: note.RawTranscript,
		LectureURL:    note.LectureURL,
		CreatedAt:     note.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     note.UpdatedAt.UTC().Format(time.RFC3339),
		FolderID:      note.FolderID,
		Folder:        folder,
	}
}

func toFolderResponse(folder model.Folder) FolderResponse {
	return FolderResponse{
		ID:        folder.ID,
		Name:      folder.Name,
		Color:     folder.Color,
		Icon:      folder.Icon,
		NoteCount: folder.NoteCount,
		CreatedAt: folder.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toKeyStatusResponse(status application.KeyStatus) KeyStatusResponse {
	resp := KeyStatusResponse{
		HasKey:  status.HasKey,
		IsValid: status.IsValid,
	}
	if !status.LastVerified.IsZero() {
		verified := status.LastVerified.UTC().Format(time.RFC3339)
		resp.LastVerified = &verified
	}
	return resp
}
