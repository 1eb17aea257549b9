package driven

import (
	"context"
	"errors"

	"github.com/lectern-notes/lectern/internal/domain/model"
)

var (
	// ErrFolderNotFound indicates the requested folder does not exist or is
	// not owned by the requesting user.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrFolderAlreadyExists indicates the user already has a folder with
	// the same name.
	ErrFolderAlreadyExists = errors.New("folder with this name already exists")
)

// FolderUpdate carries the mutable folder fields for a partial update.
// Nil pointers mean "leave unchanged".
type FolderUpdate struct {
	Name  *string
	Color *string
	Icon  *string
}

// HasChanges reports whether the update modifies at least one field.
func (u FolderUpdate) HasChanges() bool {
	return u.Name != nil || u.Color != nil || u.Icon != nil
}

// FolderStore defines the driven port for folder persistence.
type FolderStore interface {
	// Insert creates a new folder. Returns ErrFolderAlreadyExists when the
	// user already has a folder with the same name.
	Insert(ctx context.Context, folder model.Folder) error

	// ListByUser returns the user's folders, oldest first, with NoteCount
	// populated.
	ListByUser(ctx context.Context, userID string) ([]model.Folder, error)

	// Update applies a partial update. Returns ErrFolderNotFound if absent
	// and ErrFolderAlreadyExists on a name collision.
	Update(ctx context.Context, userID, id string, update FolderUpdate) (*model.Folder, error)

	// Delete removes the folder. Notes referencing it are detached, not
	// deleted. Returns ErrFolderNotFound if absent.
	Delete(ctx context.Context, userID, id string) error
}
