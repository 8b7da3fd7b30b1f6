// Package session implements the server-side half of authgate's dual
// identity model: an opaque id delivered as a cookie, bound to a user
// in Redis with a fixed TTL. Redis keeps session state visible to every
// service instance behind a load balancer and expires records on its own.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// ErrNotFound is returned by Lookup when no active session exists for
// an id. Expired and never-created sessions are indistinguishable:
// Redis drops expired keys, so both surface as absent.
var ErrNotFound = errors.New("session not found")

// Session is the server-side binding between a session id and a user.
type Session struct {
	UserID    int64     `json:"user_id"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages sessions in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a session store with the given TTL.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Create allocates a new opaque session id and persists the binding
// with the store's TTL. The returned id is what goes into the cookie.
func (s *Store) Create(ctx context.Context, userID int64, userEmail string) (string, error) {
	id := uuid.NewString()

	sess := Session{
		UserID:    userID,
		UserEmail: userEmail,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshaling session: %w", err)
	}

	if err := s.rdb.Set(ctx, keyPrefix+id, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	return id, nil
}

// Lookup returns the session for the given id, or ErrNotFound if it
// does not exist or has expired.
func (s *Store) Lookup(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}

	return &sess, nil
}

// Destroy removes a session. It is idempotent: destroying a session
// that is already gone is not an error, only a store failure is.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
