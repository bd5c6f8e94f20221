// Copyright crimson206, 2026. All rights reserved.

// Package index persists extracted entries in a SQLite database with
// full-text search over titles and outputs.
package index

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crimson206/nbdigest/pkg/types"
)

const (
	dbFile       = "digest.db"
	parsedSuffix = "_parsed.json"
)

// Store manages the digest index SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	parsedDir  string
	maxResults int
}

// NewStore opens or creates the index database at cfg.IndexDir/digest.db,
// creating the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		indexDir:   cfg.IndexDir,
		parsedDir:  cfg.ParsedDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS notebooks (
			id TEXT PRIMARY KEY,
			parsed_path TEXT,
			entry_count INTEGER,
			indexed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			notebook_id TEXT NOT NULL REFERENCES notebooks(id),
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			output TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_notebook_id ON entries(notebook_id)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			notebook_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE entries_fts USING fts5(title, output, content=entries, content_rowid=rowid)`,
			`CREATE TRIGGER entries_ai AFTER INSERT ON entries BEGIN
				INSERT INTO entries_fts(rowid, title, output) VALUES (new.rowid, new.title, new.output);
			END`,
			`CREATE TRIGGER entries_ad AFTER DELETE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, title, output) VALUES('delete', old.rowid, old.title, old.output);
			END`,
			`CREATE TRIGGER entries_au AFTER UPDATE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, title, output) VALUES('delete', old.rowid, old.title, old.output);
				INSERT INTO entries_fts(rowid, title, output) VALUES (new.rowid, new.title, new.output);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an index ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of parsed files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads parsed JSON files from the parsed directory and populates
// the database. It detects new, changed, and unchanged files for
// incremental updates.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	dirEntries, err := os.ReadDir(s.parsedDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading parsed directory %s: %w", s.parsedDir, err)
	}

	var summary IngestSummary

	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), parsedSuffix) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		notebookID := strings.TrimSuffix(dirEntry.Name(), parsedSuffix)
		filePath := filepath.Join(s.parsedDir, dirEntry.Name())

		info, err := dirEntry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", notebookID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE notebook_id = ?`, notebookID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", notebookID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", notebookID, err)
			summary.Failed++
			continue
		}

		var entries []types.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", notebookID, err)
			summary.Failed++
			continue
		}

		if err := s.ingestNotebook(ctx, notebookID, filePath, entries, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", notebookID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d entries)\n", notebookID, len(entries))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d entries)\n", notebookID, len(entries))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

// ingestNotebook replaces a notebook's rows inside one transaction.
func (s *Store) ingestNotebook(ctx context.Context, notebookID, parsedPath string, entries []types.Entry, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM entries WHERE notebook_id = ?`, notebookID); err != nil {
			return fmt.Errorf("clearing old entries: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO notebooks (id, parsed_path, entry_count, indexed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			parsed_path = excluded.parsed_path,
			entry_count = excluded.entry_count,
			indexed_at = excluded.indexed_at`,
		notebookID, parsedPath, len(entries), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("upserting notebook: %w", err)
	}

	for i, entry := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, notebook_id, position, title, output)
			 VALUES (?, ?, ?, ?, ?)`,
			stableID(notebookID, i, entry.Title), notebookID, i, entry.Title, entry.Output); err != nil {
			return fmt.Errorf("inserting entry %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO indexing_status (notebook_id, file_mod_time)
		 VALUES (?, ?)
		 ON CONFLICT(notebook_id) DO UPDATE SET file_mod_time = excluded.file_mod_time`,
		notebookID, modTime); err != nil {
		return fmt.Errorf("recording indexing status: %w", err)
	}

	return tx.Commit()
}

// stableID generates a deterministic entry ID from notebook ID, position,
// and title: the first 12 hex characters of their SHA-256.
func stableID(notebookID string, position int, title string) string {
	h := sha256.New()
	h.Write([]byte(notebookID))
	fmt.Fprintf(h, "%d", position)
	h.Write([]byte(title))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}
