package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lectern-notes/lectern/internal/domain/model"
	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.FolderStore = (*FolderRepo)(nil)

// FolderRepo is the SQLite implementation of the FolderStore port interface.
type FolderRepo struct {
	db *DB
}

// NewFolderRepo creates a new FolderRepo backed by the given DB.
func NewFolderRepo(db *DB) *FolderRepo {
	return &FolderRepo{db: db}
}

// Insert creates a new folder. A (user_id, name) collision returns
// driven.ErrFolderAlreadyExists.
func (r *FolderRepo) Insert(ctx context.Context, folder model.Folder) error {
	const query = `INSERT INTO folders (id, user_id, name, color, icon, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	createdAt := folder.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	color := folder.Color
	if color == "" {
		color = model.DefaultFolderColor
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		folder.ID, folder.UserID, folder.Name, color, nullString(folder.Icon),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return driven.ErrFolderAlreadyExists
		}
		return fmt.Errorf("insert folder %q: %w", folder.Name, err)
	}

	return nil
}

// ListByUser returns the user's folders, oldest first, with per-folder note
// counts populated in one aggregate query.
func (r *FolderRepo) ListByUser(ctx context.Context, userID string) ([]model.Folder, error) {
	const query = `
		SELECT f.id, f.user_id, f.name, f.color, f.icon, f.created_at,
			(SELECT COUNT(*) FROM notes n WHERE n.folder_id = f.id) AS note_count
		FROM folders f
		WHERE f.user_id = ?
		ORDER BY f.created_at ASC
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []model.Folder
	for rows.Next() {
		folder, err := scanFolder(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	if folders == nil {
		folders = []model.Folder{}
	}

	return folders, nil
}

// Update applies a partial update to name, color, or icon.
func (r *FolderRepo) Update(ctx context.Context, userID, id string, update driven.FolderUpdate) (*model.Folder, error) {
	if !update.HasChanges() {
		return r.get(ctx, userID, id)
	}

	var sets []string
	var args []any

	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*update.Name))
	}
	if update.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *update.Color)
	}
	if update.Icon != nil {
		sets = append(sets, "icon = ?")
		args = append(args, nullString(*update.Icon))
	}

	query := `UPDATE folders SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`
	args = append(args, id, userID)

	result, err := r.db.Writer.ExecContext(ctx, query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, driven.ErrFolderAlreadyExists
		}
		return nil, fmt.Errorf("update folder %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return nil, driven.ErrFolderNotFound
	}

	return r.get(ctx, userID, id)
}

// Delete removes the folder. Notes referencing it are detached in the same
// transaction so they survive regardless of foreign key configuration and are
// never left detached when the folder row turns out not to exist.
func (r *FolderRepo) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete folder %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	const detach = `UPDATE notes SET folder_id = NULL WHERE folder_id = ? AND user_id = ?`
	if _, err := tx.ExecContext(ctx, detach, id, userID); err != nil {
		return fmt.Errorf("detach notes from folder %s: %w", id, err)
	}

	const query = `DELETE FROM folders WHERE id = ? AND user_id = ?`
	result, err := tx.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete folder %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return driven.ErrFolderNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete folder %s: %w", id, err)
	}
	return nil
}

func (r *FolderRepo) get(ctx context.Context, userID, id string) (*model.Folder, error) {
	const query = `SELECT id, user_id, name, color, icon, created_at FROM folders WHERE id = ? AND user_id = ?`

	folder, err := scanFolder(r.db.Reader.QueryRowContext(ctx, query, id, userID), false)
	if err == sql.ErrNoRows {
		return nil, driven.ErrFolderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get folder %s: %w", id, err)
	}
	return folder, nil
}

func scanFolder(s rowScanner, withCount bool) (*model.Folder, error) {
	var folder model.Folder
	var icon sql.NullString
	var createdAt string

	dest := []any{&folder.ID, &folder.UserID, &folder.Name, &folder.Color, &icon, &createdAt}
	if withCount {
		dest = append(dest, &folder.NoteCount)
	}

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	folder.Icon = icon.String

	var err error
	folder.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &folder, nil
}
