// Package sqlite implements the document metadata store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/bloommama/bloomrag/persistence/sqlite/migrations"
	"github.com/bloommama/bloomrag/store"
)

func NewDocumentStore(cfg store.Config) (store.DocumentStore, error) {
	dataDir := cfg.Path
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".bloommama", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "documents.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &documentStore{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

type documentStore struct {
	db *sql.DB
}

func (s *documentStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for i, name := range names {
		version := i + 1
		if version <= currentVersion {
			continue
		}

		script, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(script)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *documentStore) UpsertDocument(ctx context.Context, url, title string, status store.Status, fetchedAt time.Time) (store.Document, error) {
	query := `
		INSERT INTO documents (id, url, title, status, last_fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			last_fetched_at = excluded.last_fetched_at
		RETURNING id, url, title, status, last_fetched_at, created_at
	`

	row := s.db.QueryRowContext(ctx, query,
		uuid.NewString(), url, nullString(title), string(status), fetchedAt.UTC(),
	)

	return scanDocument(row)
}

func (s *documentStore) UpdateStatus(ctx context.Context, id string, status store.Status) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE documents SET status = ? WHERE id = ?",
		string(status), id,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return store.ErrDocumentNotFound
	}

	return nil
}

func (s *documentStore) FindDocument(ctx context.Context, id string) (store.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, status, last_fetched_at, created_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Document{}, store.ErrDocumentNotFound
	}

	return doc, err
}

func (s *documentStore) ListDocuments(ctx context.Context) ([]store.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, title, status, last_fetched_at, created_at
		FROM documents ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]store.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return store.ErrDocumentNotFound
	}

	return nil
}

func (s *documentStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (store.Document, error) {
	var (
		doc       store.Document
		title     sql.NullString
		fetchedAt sql.NullTime
	)

	err := row.Scan(&doc.ID, &doc.URL, &title, &doc.Status, &fetchedAt, &doc.CreatedAt)
	if err != nil {
		return store.Document{}, err
	}

	doc.Title = title.String

	if fetchedAt.Valid {
		t := fetchedAt.Time
		doc.LastFetchedAt = &t
	}

	return doc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
