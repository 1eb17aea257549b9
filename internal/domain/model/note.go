// Package model contains the domain entities shared across ports and adapters.
package model

import "time"

// Note is one generated lecture-notes artifact owned by a single user.
// TranscriptHash is the SHA-256 hex digest of the raw transcript and,
// together with UserID, uniquely identifies the note: at most one note
// exists per user per distinct transcript.
type Note struct {
	ID             string
	UserID         string
	Title          string
	LectureDate    string // ISO date (YYYY-MM-DD); empty when unknown.
	TranscriptHash string
	RawTranscript  string
	NotesHTML      string
	LectureURL     string
	FolderID       string // Empty when the note is unorganized.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NoteUpdate carries the mutable note fields for a partial update.
// Nil pointers mean "leave unchanged"; a non-nil empty FolderID moves
// the note out of its folder.
type NoteUpdate struct {
	Title       *string
	LectureDate *string
	FolderID    *string
}

// HasChanges reports whether the update modifies at least one field.
func (u NoteUpdate) HasChanges() bool {
	return u.Title != nil || u.LectureDate != nil || u.FolderID != nil
}
