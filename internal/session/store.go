// Package session persists session-scoped client state in SQLite: the auth
// bearer token, the avatar crop transform, and locally liked product ids.
//
// The store replaces the module-level mutable caches a storefront client
// tends to accrete. Its lifecycle is explicit: opened at session start,
// wiped by Reset at logout.
package session

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avdeevlv/vitrina/internal/avatar"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// Store is the SQLite-backed session state.
type Store struct {
	db *sql.DB
}

// Open creates or opens the session database at path.
//
// The database is configured with WAL mode for concurrent reads, NORMAL
// synchronous mode, a 5-second busy timeout, and foreign key enforcement.
// Idempotent: safe to call on an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("session: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: connect: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent mutation.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion)
		if err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version > currentSchemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported %d", version, currentSchemaVersion)
	}
	return nil
}

// SetToken stores the bearer token, replacing any previous session.
func (s *Store) SetToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, token, created_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET token = excluded.token, created_at = excluded.created_at`,
		token, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("session: store token: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when the user is logged
// out. Implements the API client's TokenSource.
func (s *Store) Token() (string, error) {
	var token string
	err := s.db.QueryRow("SELECT token FROM session WHERE id = 1").Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: read token: %w", err)
	}
	return token, nil
}

// Reset wipes all session state. Bound to logout.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("session: begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM session",
		"DELETE FROM avatar_transform",
		"DELETE FROM liked_products",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("session: reset: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("session: commit reset: %w", err)
	}
	return nil
}

// SaveAvatarTransform persists the avatar crop in percent form.
func (s *Store) SaveAvatarTransform(ctx context.Context, t avatar.PercentTransform) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO avatar_transform (id, scale, translate_x, translate_y) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   scale = excluded.scale,
		   translate_x = excluded.translate_x,
		   translate_y = excluded.translate_y`,
		t.Scale, t.TranslateX, t.TranslateY)
	if err != nil {
		return fmt.Errorf("session: store avatar transform: %w", err)
	}
	return nil
}

// AvatarTransform returns the persisted crop, if one was ever saved.
func (s *Store) AvatarTransform(ctx context.Context) (avatar.PercentTransform, bool, error) {
	var t avatar.PercentTransform
	err := s.db.QueryRowContext(ctx,
		"SELECT scale, translate_x, translate_y FROM avatar_transform WHERE id = 1").
		Scan(&t.Scale, &t.TranslateX, &t.TranslateY)
	if errors.Is(err, sql.ErrNoRows) {
		return avatar.PercentTransform{}, false, nil
	}
	if err != nil {
		return avatar.PercentTransform{}, false, fmt.Errorf("session: read avatar transform: %w", err)
	}
	return t, true, nil
}

// SetLiked records or clears the local liked flag for a product.
func (s *Store) SetLiked(ctx context.Context, productID string, liked bool) error {
	var err error
	if liked {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO liked_products (product_id, liked_at) VALUES (?, ?)
			 ON CONFLICT (product_id) DO NOTHING`,
			productID, time.Now().UTC().Format(time.RFC3339))
	} else {
		_, err = s.db.ExecContext(ctx,
			"DELETE FROM liked_products WHERE product_id = ?", productID)
	}
	if err != nil {
		return fmt.Errorf("session: set liked: %w", err)
	}
	return nil
}

// IsLiked reports the local liked flag for a product.
func (s *Store) IsLiked(ctx context.Context, productID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM liked_products WHERE product_id = ?", productID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session: read liked: %w", err)
	}
	return true, nil
}

// LikedIDs returns all locally liked product ids, oldest first.
func (s *Store) LikedIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT product_id FROM liked_products ORDER BY liked_at, product_id")
	if err != nil {
		return nil, fmt.Errorf("session: list liked: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("session: scan liked: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: iterate liked: %w", err)
	}
	return ids, nil
}
