// Package driven defines the outbound port interfaces implemented by the
// adapter layer (persistence, external generation service).
package driven

import (
	"context"
	"errors"

	"github.com/lectern-notes/lectern/internal/domain/model"
)

var (
	// ErrNoteNotFound indicates the requested note does not exist or is not
	// owned by the requesting user.
	ErrNoteNotFound = errors.New("note not found")

	// ErrDuplicateTranscript indicates an insert collided with an existing
	// note for the same (user, transcript hash) pair. Callers treat this as
	// "the note already exists", not as a failure.
	ErrDuplicateTranscript = errors.New("note already exists for this transcript")
)

// NoteFilter narrows ListByUser results.
type NoteFilter struct {
	// FolderID filters by folder. Empty means no folder filter;
	// Unorganized selects notes with no folder.
	FolderID    string
	Unorganized bool

	// Search matches notes whose title contains the string, case-insensitively.
	Search string

	Limit  int
	Offset int
}

// NoteStore defines the driven port for note persistence. The store's
// UNIQUE(user_id, transcript_hash) constraint is the single arbiter of
// deduplication; Insert surfaces a violation as ErrDuplicateTranscript.
type NoteStore interface {
	// FindByHash returns the note for the given user and transcript hash,
	// or (nil, nil) when no such note exists.
	FindByHash(ctx context.Context, userID, hash string) (*model.Note, error)

	// Insert creates a new note. Returns ErrDuplicateTranscript when a note
	// for the same (user, transcript hash) pair already exists.
	Insert(ctx context.Context, note model.Note) error

	// Get returns a note by ID scoped to the owning user.
	// Returns ErrNoteNotFound if absent.
	Get(ctx context.Context, userID, id string) (*model.Note, error)

	// ListByUser returns notes matching the filter, newest first, along with
	// the total count of matches ignoring Limit/Offset.
	ListByUser(ctx context.Context, userID string, filter NoteFilter) ([]model.Note, int, error)

	// Update applies a partial update to the mutable fields.
	// Returns ErrNoteNotFound if absent.
	Update(ctx context.Context, userID, id string, update model.NoteUpdate) (*model.Note, error)

	// Delete removes a note. Returns ErrNoteNotFound if absent.
	Delete(ctx context.Context, userID, id string) error
}
