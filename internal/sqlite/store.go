// Package sqlite reads app sessions from the SQLite file the app install
// flow writes to.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-shop-admin/internal/session"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS shopify_sessions (
	id TEXT NOT NULL PRIMARY KEY,
	shop TEXT NOT NULL,
	state TEXT NOT NULL DEFAULT '',
	isOnline INTEGER NOT NULL DEFAULT 0,
	expires INTEGER,
	scope TEXT,
	accessToken TEXT,
	onlineAccessInfo TEXT
)`

// Open connects to path and makes sure the sessions table exists.
func Open(path string) (*sqlx.DB, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	if path == ":memory:" {
		dsn = path
	}
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return db, nil
}

type SessionStore struct {
	DB *sqlx.DB
}

func (s *SessionStore) Get(ctx context.Context, shop string) (session.Session, error) {
	const q = `
		SELECT shop, COALESCE(accessToken, '') AS access_token, COALESCE(scope, '') AS scope
		FROM shopify_sessions
		WHERE id = ?`
	var out session.Session
	err := s.DB.GetContext(ctx, &out, q, session.OfflineID(shop))
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("get session %s: %w", shop, err)
	}
	return out, nil
}

func (s *SessionStore) Save(ctx context.Context, sess session.Session) error {
	const q = `
		INSERT INTO shopify_sessions (id, shop, isOnline, scope, accessToken)
		VALUES (?, ?, 0, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scope = excluded.scope,
			accessToken = excluded.accessToken`
	if _, err := s.DB.ExecContext(ctx, q, session.OfflineID(sess.Shop), sess.Shop, sess.Scope, sess.AccessToken); err != nil {
		return fmt.Errorf("save session %s: %w", sess.Shop, err)
	}
	return nil
}
