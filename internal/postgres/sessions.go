package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-shop-admin/internal/session"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema matches the table the app's PostgreSQL session storage creates.
const Schema = `
CREATE TABLE IF NOT EXISTS shopify_sessions (
	id varchar(255) NOT NULL PRIMARY KEY,
	shop varchar(255) NOT NULL,
	state varchar(255) NOT NULL DEFAULT '',
	"isOnline" boolean NOT NULL DEFAULT false,
	scope varchar(255),
	expires integer,
	"onlineAccessInfo" varchar(255),
	"accessToken" varchar(255)
)`

type SessionStore struct {
	DB *pgxpool.Pool
}

func (s *SessionStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, shop string) (session.Session, error) {
	var out session.Session
	row := s.DB.QueryRow(ctx,
		`SELECT shop, COALESCE("accessToken", ''), COALESCE(scope, '') FROM shopify_sessions WHERE id=$1`,
		session.OfflineID(shop))
	err := row.Scan(&out.Shop, &out.AccessToken, &out.Scope)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("get session %s: %w", shop, err)
	}
	return out, nil
}

func (s *SessionStore) Save(ctx context.Context, sess session.Session) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO shopify_sessions (id, shop, "isOnline", scope, "accessToken")
		VALUES ($1, $2, false, $3, $4)
		ON CONFLICT (id) DO UPDATE SET scope=EXCLUDED.scope, "accessToken"=EXCLUDED."accessToken"`,
		session.OfflineID(sess.Shop), sess.Shop, sess.Scope, sess.AccessToken)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.Shop, err)
	}
	return nil
}
