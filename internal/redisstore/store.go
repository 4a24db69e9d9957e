// Package redisstore keeps registered OAuth clients in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rpggio/sn-mcp/internal/oauth"
	"github.com/rpggio/sn-mcp/internal/repository"
)

type clientRecord struct {
	oauth.Client
	IssuedAt time.Time `json:"issued_at"`
}

// Store implements oauth.ClientStore using Redis
type Store struct {
	client *redis.Client
	prefix string
}

// New connects to addr, either host:port or a redis:// URL.
func New(ctx context.Context, addr string) (*Store, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewWithClient(client), nil
}

// NewWithClient creates a store from an existing Redis client
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client, prefix: "oauth:client:"}
}

func (s *Store) key(clientID string) string {
	return s.prefix + clientID
}

// SaveClient stores a client. Registered clients do not expire.
func (s *Store) SaveClient(ctx context.Context, client oauth.Client) error {
	data, err := json.Marshal(clientRecord{Client: client, IssuedAt: client.IssuedAt})
	if err != nil {
		return fmt.Errorf("marshal client: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(client.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("save client: %w", err)
	}
	if !ok {
		return repository.ErrConflict
	}
	return nil
}

// GetClient retrieves a client by ID
func (s *Store) GetClient(ctx context.Context, clientID string) (*oauth.Client, error) {
	data, err := s.client.Get(ctx, s.key(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, oauth.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup client: %w", err)
	}

	var rec clientRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal client: %w", err)
	}
	client := rec.Client
	client.IssuedAt = rec.IssuedAt
	return &client, nil
}

// Ping checks if Redis is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
