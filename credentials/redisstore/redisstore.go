// Package redisstore keeps a session in a Redis hash so several dashboard
// processes can share it.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "admin-session:"

var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready")
)

var _ credentials.Store = (*Store)(nil)

// Store implements credentials.Store with one Redis hash per profile.
type Store struct {
	client redis.UniversalClient
	key    string
}

// New returns a Store that keeps profile's credentials in one hash.
func New(client redis.UniversalClient, profile string) *Store {
	return &Store{client: client, key: keyPrefix + profile}
}

// Connect parses url, pings the server and returns a Store for profile.
func Connect(ctx context.Context, url, profile string, timeout time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}
	return New(client, profile), nil
}

// Profile returns a Store for another profile sharing this store's client.
// Close only the store that was connected.
func (s *Store) Profile(profile string) *Store {
	return New(s.client, profile)
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redisstore.Get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.key, key, value).Err(); err != nil {
		return fmt.Errorf("redisstore.Set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redisstore.Clear: %w", err)
	}
	return nil
}
