package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"excel-aggregator/internal/model"
	"excel-aggregator/pkg/utils"
)

// ErrUploadNotFound is returned for unknown or malformed upload IDs
var ErrUploadNotFound = model.ErrUploadNotFound

// ErrOutputNotFound is returned when a result file was never written
var ErrOutputNotFound = model.ErrOutputNotFound

// Store keeps uploaded spreadsheets and their aggregation results on disk,
// one directory per upload, and registers them in sqlite.
type Store struct {
	db    *sql.DB
	files *utils.OutputManager
	now   func() time.Time
}

// Open connects to the sqlite registry at dbPath and prepares baseDir
func Open(dbPath, baseDir string) (*Store, error) {
	files := utils.NewOutputManager(baseDir)
	if err := files.EnsureOutputDirExists(); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)

	s := &Store{db: db, files: files, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	uploadTable := `
	CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		original_name TEXT,
		path TEXT,
		columns TEXT,
		created_at DATETIME
	);
	`
	outputTable := `
	CREATE TABLE IF NOT EXISTS outputs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		upload_id TEXT,
		name TEXT,
		path TEXT,
		row_count INTEGER,
		created_at DATETIME,
		UNIQUE (upload_id, name)
	);
	`

	if _, err := s.db.Exec(uploadTable); err != nil {
		return fmt.Errorf("failed to create uploads table: %w", err)
	}
	if _, err := s.db.Exec(outputTable); err != nil {
		return fmt.Errorf("failed to create outputs table: %w", err)
	}
	return nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// BaseDir is the directory upload folders live in
func (s *Store) BaseDir() string {
	return s.files.BaseOutputDir
}

// SaveUpload writes data under a fresh upload ID and registers it together
// with the column names read from it.
func (s *Store) SaveUpload(ctx context.Context, originalName string, data []byte, columns []string) (model.Upload, error) {
	id := uuid.NewString()
	path, err := s.files.GetOutputFilePath(id, originalName)
	if err != nil {
		return model.Upload{}, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.Upload{}, fmt.Errorf("failed to write upload: %w", err)
	}

	columnsJSON, err := json.Marshal(columns)
	if err != nil {
		return model.Upload{}, err
	}

	upload := model.Upload{
		ID:           id,
		OriginalName: filepath.Base(originalName),
		Path:         path,
		Columns:      columns,
		CreatedAt:    s.now(),
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO uploads (id, original_name, path, columns, created_at) VALUES (?, ?, ?, ?, ?)`,
		upload.ID, upload.OriginalName, upload.Path, string(columnsJSON), upload.CreatedAt)
	if err != nil {
		s.files.RemoveUploadDir(id)
		return model.Upload{}, fmt.Errorf("failed to register upload: %w", err)
	}
	return upload, nil
}

// GetUpload fetches a registered upload
func (s *Store) GetUpload(ctx context.Context, id string) (model.Upload, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Upload{}, ErrUploadNotFound
	}

	var upload model.Upload
	var columnsJSON string
	err := s.db.QueryRowContext(ctx, `SELECT id, original_name, path, columns, created_at FROM uploads WHERE id = ?`, id).
		Scan(&upload.ID, &upload.OriginalName, &upload.Path, &columnsJSON, &upload.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Upload{}, ErrUploadNotFound
	}
	if err != nil {
		return model.Upload{}, err
	}
	if err := json.Unmarshal([]byte(columnsJSON), &upload.Columns); err != nil {
		return model.Upload{}, fmt.Errorf("corrupt column list for upload %s: %w", id, err)
	}
	return upload, nil
}

// ListUploads returns all uploads, newest first
func (s *Store) ListUploads(ctx context.Context) ([]model.Upload, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, original_name, path, columns, created_at FROM uploads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []model.Upload
	for rows.Next() {
		var upload model.Upload
		var columnsJSON string
		if err := rows.Scan(&upload.ID, &upload.OriginalName, &upload.Path, &columnsJSON, &upload.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(columnsJSON), &upload.Columns); err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, rows.Err()
}

// SaveResult writes an aggregation result next to its upload. write is
// called with the destination; a failed write leaves nothing behind.
func (s *Store) SaveResult(ctx context.Context, uploadID, name string, rows int, write func(io.Writer) error) (model.OutputFile, error) {
	if _, err := s.GetUpload(ctx, uploadID); err != nil {
		return model.OutputFile{}, err
	}
	path, err := s.files.GetOutputFilePath(uploadID, name)
	if err != nil {
		return model.OutputFile{}, err
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return model.OutputFile{}, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return model.OutputFile{}, fmt.Errorf("failed to write result: %w", err)
	}

	out := model.OutputFile{
		UploadID:  uploadID,
		Name:      filepath.Base(path),
		Path:      path,
		Rows:      rows,
		CreatedAt: s.now(),
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO outputs (upload_id, name, path, row_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		out.UploadID, out.Name, out.Path, out.Rows, out.CreatedAt)
	if err != nil {
		return model.OutputFile{}, fmt.Errorf("failed to register result: %w", err)
	}
	return out, nil
}

// GetResult fetches a result previously written with SaveResult
func (s *Store) GetResult(ctx context.Context, uploadID, name string) (model.OutputFile, error) {
	if _, err := uuid.Parse(uploadID); err != nil {
		return model.OutputFile{}, ErrUploadNotFound
	}

	out := model.OutputFile{UploadID: uploadID}
	err := s.db.QueryRowContext(ctx, `SELECT name, path, row_count, created_at FROM outputs WHERE upload_id = ? AND name = ?`,
		uploadID, filepath.Base(name)).
		Scan(&out.Name, &out.Path, &out.Rows, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.OutputFile{}, ErrOutputNotFound
	}
	if err != nil {
		return model.OutputFile{}, err
	}
	return out, nil
}

// DownloadURL is the public path of a stored result
func (s *Store) DownloadURL(out model.OutputFile) string {
	return s.files.GetDownloadURL(out.UploadID, out.Name)
}

// DeleteUpload removes an upload, its results and its directory
func (s *Store) DeleteUpload(ctx context.Context, id string) error {
	if _, err := s.GetUpload(ctx, id); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM outputs WHERE upload_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM uploads WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return s.files.RemoveUploadDir(id)
}

// Cleanup deletes every upload created before cutoff and reports how many
// were removed.
func (s *Store) Cleanup(ctx context.Context, cutoff time.Time) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM uploads WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		if err := s.DeleteUpload(ctx, id); err != nil {
			return removed, fmt.Errorf("failed to remove upload %s: %w", id, err)
		}
		removed++
	}
	return removed, nil
}
