// Package sqlite persists the in-memory store to a single SQLite file. The
// full state is written as JSON buckets inside the commit of every write
// transaction, so the file never holds a state the memory store rejected.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"recipe-costing/internal/store/memory"
)

const DefaultPath = "recipe-costing.db"

// Store is a memory.Store whose commits are mirrored to SQLite.
type Store struct {
	*memory.Store
	db   *sql.DB
	path string
}

var buckets = []string{"ingredients", "recipes", "components", "sales", "meta"}

type meta struct {
	LastComponentID int64 `json:"last_component_id"`
}

// Open opens or creates the database at path and loads its state. opts are
// passed to the underlying memory store.
func Open(ctx context.Context, path string, opts ...memory.Option) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One connection keeps writes ordered with the memory store's lock.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket  TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create state table: %w", err)
	}

	s := &Store{db: db, path: path}
	s.Store = memory.New(append(opts, memory.WithCommitHook(s.persist))...)
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snap memory.Snapshot
	var m meta
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("failed to scan state row: %w", err)
		}
		found = true
		var target any
		switch bucket {
		case "ingredients":
			target = &snap.Ingredients
		case "recipes":
			target = &snap.Recipes
		case "components":
			target = &snap.Components
		case "sales":
			target = &snap.Sales
		case "meta":
			target = &m
		default:
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return fmt.Errorf("failed to decode %s: %w", bucket, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}
	if !found {
		return nil
	}
	snap.LastComponentID = m.LastComponentID
	s.Import(snap)
	return nil
}

// persist is the memory store's commit hook.
func (s *Store) persist(ctx context.Context, snap memory.Snapshot) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin sqlite transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, bucket := range buckets {
		var v any
		switch bucket {
		case "ingredients":
			v = snap.Ingredients
		case "recipes":
			v = snap.Recipes
		case "components":
			v = snap.Components
		case "sales":
			v = snap.Sales
		case "meta":
			v = meta{LastComponentID: snap.LastComponentID}
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", bucket, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket, payload) VALUES(?, ?) ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
			bucket, data); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", bucket, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }
