// Package session maps opaque session tokens to user ids in Redis
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "auth_"
	DefaultTTL = 24 * time.Hour
)

// ErrNoSession is returned by Validate for absent or expired tokens
var ErrNoSession = errors.New("no such session")

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials Redis and waits for a PING reply before returning, so the
// store is usable as soon as it's handed out.
func Connect(ctx context.Context, opts *redis.Options, ttl time.Duration) (*Store, error) {
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s, %w", opts.Addr, err)
	}

	return New(client, ttl), nil
}

// New wraps an existing client. A zero ttl means DefaultTTL.
func New(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{client: client, ttl: ttl}
}

func Key(token string) string {
	return keyPrefix + token
}

// Create issues a new token for userID valid for the store's TTL
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()

	if err := s.client.Set(ctx, Key(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session, %w", err)
	}

	return token, nil
}

// Validate returns the user owning token. Reads never extend the TTL.
func (s *Store) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}

	userID, err := s.client.Get(ctx, Key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}

		return "", fmt.Errorf("failed to look up session, %w", err)
	}

	return userID, nil
}

// Delete removes token. Deleting an unknown token succeeds.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, Key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session, %w", err)
	}

	return nil
}

func (s *Store) IsAlive(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
