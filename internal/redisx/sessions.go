package redisx

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-shop-admin/internal/session"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps sessions as hashes without expiry; offline tokens do
// not expire.
type SessionStore struct {
	RDB *redis.Client
}

func (s *SessionStore) Get(ctx context.Context, shop string) (session.Session, error) {
	var out session.Session
	cmd := s.RDB.HGetAll(ctx, sessionKey(shop))
	if err := cmd.Err(); err != nil {
		return session.Session{}, fmt.Errorf("get session %s: %w", shop, err)
	}
	if len(cmd.Val()) == 0 {
		return session.Session{}, session.ErrNotFound
	}
	if err := cmd.Scan(&out); err != nil {
		return session.Session{}, fmt.Errorf("decode session %s: %w", shop, err)
	}
	return out, nil
}

func (s *SessionStore) Save(ctx context.Context, sess session.Session) error {
	err := s.RDB.HSet(ctx, sessionKey(sess.Shop),
		"shop", sess.Shop,
		"access_token", sess.AccessToken,
		"scope", sess.Scope,
	).Err()
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.Shop, err)
	}
	return nil
}
