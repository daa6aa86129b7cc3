package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/authapp/portal/internal/core/domain"
)

const keyPrefix = "portal:session:"

// SessionStore keeps browser sessions as JSON documents.
// Key format: portal:session:<session_id>
// Every save refreshes the expiry, so idle sessions vanish after ttl. Saves
// are optimistic: a stale copy never overwrites a newer one.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, id string) (*domain.BrowserSession, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess domain.BrowserSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// Save writes sess inside a WATCH/MULTI transaction and bumps sess.Version.
// When the stored copy was saved by someone else since sess was loaded, or
// changes while the transaction runs, it returns domain.ErrSessionConflict.
func (s *SessionStore) Save(ctx context.Context, sess *domain.BrowserSession) error {
	next := *sess
	next.Version++
	raw, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	key := s.key(sess.ID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := storedVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if stored >= 0 && stored != sess.Version {
			return domain.ErrSessionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, s.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		sess.Version = next.Version
		return nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, domain.ErrSessionConflict):
		return fmt.Errorf("save session %s: %w", sess.ID, domain.ErrSessionConflict)
	default:
		return fmt.Errorf("save session: %w", err)
	}
}

// storedVersion returns the version saved under key, or -1 when there is
// none.
func storedVersion(ctx context.Context, tx *redis.Tx, key string) (int64, error) {
	raw, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	var head struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return 0, fmt.Errorf("decode stored session: %w", err)
	}
	return head.Version, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable; it backs the readiness probe.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) key(id string) string {
	return keyPrefix + id
}
