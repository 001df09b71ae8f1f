package repository

import (
	"context"
	"database/sql"
)

// DownloadRepo records files written by download buttons.
type DownloadRepo struct {
	db *sql.DB
}

func NewDownloadRepo(db *sql.DB) *DownloadRepo { return &DownloadRepo{db: db} }

func (r *DownloadRepo) Insert(ctx context.Context, d Download) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO downloads(id, session_id, file_name, mime, size, path, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.SessionID, d.FileName, d.MIME, d.Size, d.Path, d.CreatedAt)
	return err
}

// List returns the downloads of a session, newest first.
func (r *DownloadRepo) List(ctx context.Context, sessionID string) ([]Download, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, session_id, file_name, mime, size, path, created_at
	FROM downloads WHERE session_id = ?
	ORDER BY created_at DESC, rowid DESC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Download
	for rows.Next() {
		var d Download
		if err := rows.Scan(&d.ID, &d.SessionID, &d.FileName, &d.MIME, &d.Size, &d.Path, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
