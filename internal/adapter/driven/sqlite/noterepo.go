package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lectern-notes/lectern/internal/domain/model"
	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.NoteStore = (*NoteRepo)(nil)

// NoteRepo is the SQLite implementation of the NoteStore port interface.
// The UNIQUE(user_id, transcript_hash) constraint enforces at most one note
// per user per distinct transcript; Insert maps a violation to
// driven.ErrDuplicateTranscript so callers can converge on the winner.
type NoteRepo struct {
	db *DB
}

// NewNoteRepo creates a new NoteRepo backed by the given DB.
func NewNoteRepo(db *DB) *NoteRepo {
	return &NoteRepo{db: db}
}

const noteColumns = `id, user_id, title, lecture_date, transcript_hash, raw_transcript, notes_html, lecture_url, folder_id, created_at, updated_at`

// FindByHash returns the note for the given user and transcript hash, or
// (nil, nil) when no such note exists.
func (r *NoteRepo) FindByHash(ctx context.Context, userID, hash string) (*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ? AND transcript_hash = ?`

	note, err := scanNote(r.db.Reader.QueryRowContext(ctx, query, userID, hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find note by hash: %w", err)
	}
	return note, nil
}

// Insert creates a new note row. A (user_id, transcript_hash) collision
// returns driven.ErrDuplicateTranscript.
func (r *NoteRepo) Insert(ctx context.Context, note model.Note) error {
	const query = `
		INSERT INTO notes (
			id, user_id, title, lecture_date, transcript_hash, raw_transcript,
			notes_html, lecture_url, folder_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := note.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		note.ID, note.UserID, note.Title, nullString(note.LectureDate),
		note.TranscriptHash, note.RawTranscript, note.NotesHTML,
		nullString(note.LectureURL), nullString(note.FolderID),
		createdAt.Format(time.RFC3339), createdAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return driven.ErrDuplicateTranscript
		}
		return fmt.Errorf("insert note %s: %w", note.ID, err)
	}

	return nil
}

// Get returns a note by ID scoped to the owning user.
func (r *NoteRepo) Get(ctx context.Context, userID, id string) (*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ? AND user_id = ?`

	note, err := scanNote(r.db.Reader.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}
	return note, nil
}

// ListByUser returns notes matching the filter, newest first, plus the total
// match count ignoring pagination.
func (r *NoteRepo) ListByUser(ctx context.Context, userID string, filter driven.NoteFilter) ([]model.Note, int, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}

	if filter.Unorganized {
		where = append(where, "folder_id IS NULL")
	} else if filter.FolderID != "" {
		where = append(where, "folder_id = ?")
		args = append(args, filter.FolderID)
	}

	if filter.Search != "" {
		where = append(where, "title LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM notes WHERE ` + whereClause
	if err := r.db.Reader.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	listQuery := `SELECT ` + noteColumns + ` FROM notes WHERE ` + whereClause +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	listArgs := append(args, limit, filter.Offset)

	rows, err := r.db.Reader.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate notes: %w", err)
	}

	if notes == nil {
		notes = []model.Note{}
	}

	return notes, total, nil
}

// Update applies a partial update to title, lecture date, or folder.
// Transcript hash and raw transcript are immutable after creation.
func (r *NoteRepo) Update(ctx context.Context, userID, id string, update model.NoteUpdate) (*model.Note, error) {
	if !update.HasChanges() {
		return r.Get(ctx, userID, id)
	}

	var sets []string
	var args []any

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.LectureDate != nil {
		sets = append(sets, "lecture_date = ?")
		args = append(args, nullString(*update.LectureDate))
	}
	if update.FolderID != nil {
		sets = append(sets, "folder_id = ?")
		args = append(args, nullString(*update.FolderID))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339))

	query := `UPDATE notes SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`
	args = append(args, id, userID)

	result, err := r.db.Writer.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return nil, driven.ErrNoteNotFound
	}

	return r.Get(ctx, userID, id)
}

// Delete removes a note owned by the user.
func (r *NoteRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM notes WHERE id = ? AND user_id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return driven.ErrNoteNotFound
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(s rowScanner) (*model.Note, error) {
	var note model.Note
	var lectureDate, lectureURL, folderID sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(
		&note.ID, &note.UserID, &note.Title, &lectureDate, &note.TranscriptHash,
		&note.RawTranscript, &note.NotesHTML, &lectureURL, &folderID,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	note.LectureDate = lectureDate.String
	note.LectureURL = lectureURL.String
	note.FolderID = folderID.String

	note.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	note.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &note, nil
}

// nullString maps "" to NULL so empty optional fields don't store empty strings.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
