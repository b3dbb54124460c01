// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL,
	updated_at    INTEGER NOT NULL
);`

// SQLite is a durable [Store] backed by a single-row table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the credential database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("credstore: open %s: %w", path, err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("credstore: init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Current implements [Store].
func (s *SQLite) Current(ctx context.Context) (Token, error) {
	var (
		t  Token
		ts int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token, updated_at FROM credentials WHERE id = 1`,
	).Scan(&t.AccessToken, &t.RefreshToken, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Token{}, ErrNoToken
	}
	if err != nil {
		return Token{}, fmt.Errorf("credstore: read token: %w", err)
	}
	t.UpdatedAt = time.Unix(ts, 0).UTC()
	return t, nil
}

// Replace implements [Store].
func (s *SQLite) Replace(ctx context.Context, t Token) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (id, access_token, refresh_token, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			updated_at = excluded.updated_at`,
		t.AccessToken, t.RefreshToken, t.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("credstore: write token: %w", err)
	}
	return nil
}

// Invalidate implements [Store].
func (s *SQLite) Invalidate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("credstore: delete token: %w", err)
	}
	return nil
}
