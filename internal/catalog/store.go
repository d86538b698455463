// Package catalog records scan results in a local SQLite database so that
// earlier states of a drop folder can be listed and searched.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"framekit/internal/collect"
	"framekit/internal/logging"
	"framekit/pkg/clique"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNoScan is returned by Latest when a root has never been recorded.
var ErrNoScan = errors.New("catalog: no scan recorded")

// Store manages the catalog database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Entry is one recorded sequence.
type Entry struct {
	ScanID     string
	Root       string
	ScannedAt  time.Time
	Collection *clique.Collection
}

// Open creates or opens the catalog at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, dbPath: path}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Catalog("opened catalog %s", path)
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		scanned_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scans_root ON scans(root, scanned_at);

	CREATE TABLE IF NOT EXISTS collections (
		scan_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		head TEXT NOT NULL,
		tail TEXT NOT NULL,
		padding INTEGER NOT NULL,
		count INTEGER NOT NULL,
		descriptor TEXT NOT NULL,
		PRIMARY KEY (scan_id, position),
		FOREIGN KEY (scan_id) REFERENCES scans(id)
	);

	CREATE TABLE IF NOT EXISTS remainder (
		scan_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		item TEXT NOT NULL,
		PRIMARY KEY (scan_id, position),
		FOREIGN KEY (scan_id) REFERENCES scans(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordScan stores result as a new scan and returns its id.
func (s *Store) RecordScan(ctx context.Context, result *collect.Result) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scans (id, root, scanned_at) VALUES (?, ?, ?)`,
		id, result.Root, time.Now().UnixNano()); err != nil {
		return "", fmt.Errorf("failed to insert scan: %w", err)
	}

	for i, c := range result.Collections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collections (scan_id, position, head, tail, padding, count, descriptor)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, c.Head(), c.Tail(), c.Padding, c.Indexes.Len(), c.Format(clique.DefaultFormat)); err != nil {
			return "", fmt.Errorf("failed to insert collection: %w", err)
		}
	}

	for i, item := range result.Remainder {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO remainder (scan_id, position, item) VALUES (?, ?, ?)`,
			id, i, item); err != nil {
			return "", fmt.Errorf("failed to insert remainder: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit scan: %w", err)
	}

	logging.Catalog("recorded scan %s of %s: %d collections, %d remainder",
		id, result.Root, len(result.Collections), len(result.Remainder))
	return id, nil
}

// Latest rebuilds the most recent scan of root.
func (s *Store) Latest(ctx context.Context, root string) (*collect.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM scans WHERE root = ? ORDER BY scanned_at DESC, rowid DESC LIMIT 1`,
		root).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for %s", ErrNoScan, root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}

	result := &collect.Result{Root: root}

	rows, err := s.db.QueryContext(ctx,
		`SELECT descriptor FROM collections WHERE scan_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var descriptor string
		if err := rows.Scan(&descriptor); err != nil {
			return nil, err
		}
		c, err := clique.Parse(descriptor, clique.DefaultFormat)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", id, err)
		}
		result.Collections = append(result.Collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := s.db.QueryContext(ctx,
		`SELECT item FROM remainder WHERE scan_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query remainder: %w", err)
	}
	defer items.Close()
	for items.Next() {
		var item string
		if err := items.Scan(&item); err != nil {
			return nil, err
		}
		result.Remainder = append(result.Remainder, item)
	}
	return result, items.Err()
}

// Find returns recorded sequences whose head or tail contains substr,
// newest scan first.
func (s *Store) Find(ctx context.Context, substr string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.root, s.scanned_at, c.descriptor
		FROM collections c JOIN scans s ON s.id = c.scan_id
		WHERE instr(c.head, ?) > 0 OR instr(c.tail, ?) > 0
		ORDER BY s.scanned_at DESC, s.rowid DESC, c.position`,
		substr, substr)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			nanos      int64
			descriptor string
		)
		if err := rows.Scan(&e.ScanID, &e.Root, &nanos, &descriptor); err != nil {
			return nil, err
		}
		e.ScannedAt = time.Unix(0, nanos)
		if e.Collection, err = clique.Parse(descriptor, clique.DefaultFormat); err != nil {
			return nil, fmt.Errorf("scan %s: %w", e.ScanID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
