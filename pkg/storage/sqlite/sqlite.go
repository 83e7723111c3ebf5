package sqlite

import (
	"bytes"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/perpetuallyhorni/posterwall/pkg/storage"
)

//go:embed queries/*.sql
//go:embed queries/*.sql.tpl
var queryFS embed.FS

// DB is a SQLite implementation of the storage.Storer interface.
type DB struct {
	Conn *sql.DB // The raw database connection, exposed for extensibility.
}

var _ storage.Storer = (*DB)(nil)

// New creates a new SQLite database connection and ensures the schema is up to date.
// It returns a concrete *DB type to allow for extension.
func New(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Downloads are recorded from several workers; serialise writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{Conn: db}
	if err := instance.createSchema(); err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}

	return instance, nil
}

// getQuery reads a raw SQL query from the embedded filesystem.
func getQuery(name string) (string, error) {
	b, err := queryFS.ReadFile("queries/" + name)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded query %s: %w", name, err)
	}
	return string(b), nil
}

// getParsedQuery parses and executes a SQL template from the embedded filesystem.
func getParsedQuery(templateName string, data any) (string, error) {
	t, err := template.ParseFS(queryFS, "queries/"+templateName)
	if err != nil {
		return "", fmt.Errorf("failed to parse embedded query template %s: %w", templateName, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute embedded query template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

// createSchema creates the necessary tables in the SQLite database if they don't exist.
func (db *DB) createSchema() error {
	query, err := getQuery("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Conn.Exec(query)
	return err
}

// AddDownload records a finished download, replacing any earlier record of the same file.
func (db *DB) AddDownload(rec storage.DownloadRecord) error {
	if rec.Filename == "" {
		return fmt.Errorf("download record has no filename")
	}
	query, err := getQuery("upsert_download.sql")
	if err != nil {
		return err
	}
	at := rec.DownloadedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err = db.Conn.Exec(query, rec.Filename, rec.PosterID, rec.Title, rec.SourceURL, rec.SHA256, rec.Path, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to record download %s: %w", rec.Filename, err)
	}
	return nil
}

// DownloadExists checks if a file is already in the history.
func (db *DB) DownloadExists(filename string) (bool, error) {
	query, err := getQuery("download_exists.sql")
	if err != nil {
		return false, err
	}
	var exists bool
	if err := db.Conn.QueryRow(query, filename).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check download %s: %w", filename, err)
	}
	return exists, nil
}

// GetDownload returns the record of filename, or nil when there is none.
func (db *DB) GetDownload(filename string) (*storage.DownloadRecord, error) {
	recs, err := db.selectDownloads(true, filename)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// ListDownloads returns the whole history, most recent first.
func (db *DB) ListDownloads() ([]storage.DownloadRecord, error) {
	return db.selectDownloads(false)
}

func (db *DB) selectDownloads(byFilename bool, args ...any) ([]storage.DownloadRecord, error) {
	query, err := getParsedQuery("select_downloads.sql.tpl", struct{ ByFilename bool }{ByFilename: byFilename})
	if err != nil {
		return nil, err
	}
	rows, err := db.Conn.Query(query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []storage.DownloadRecord
	for rows.Next() {
		var r storage.DownloadRecord
		if err := rows.Scan(&r.Filename, &r.PosterID, &r.Title, &r.SourceURL, &r.SHA256, &r.Path, &r.DownloadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download row: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during download row iteration: %w", err)
	}
	return recs, nil
}

// DeleteDownload removes the record of filename.
func (db *DB) DeleteDownload(filename string) error {
	query, err := getQuery("delete_download.sql")
	if err != nil {
		return err
	}
	if _, err := db.Conn.Exec(query, filename); err != nil {
		return fmt.Errorf("failed to delete download %s: %w", filename, err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.Conn.Close()
}
