package model

import "time"

// DefaultFolderColor is assigned when a folder is created without a color.
const DefaultFolderColor = "#bf5700"

// Folder is a user-defined collection of notes, unique by (user, name).
// Deleting a folder detaches its notes rather than deleting them.
type Folder struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	Icon      string
	CreatedAt time.Time

	// NoteCount is populated on listing queries; it is not a stored column.
	NoteCount int
}
