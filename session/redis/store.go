// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package redis provides a Redis-backed session store for multi-node
// deployments. States are stored as JSON with a sliding TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/concierge/session"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 2 * time.Hour

const keyPrefix = "concierge:session:"

// Store implements session.Store on Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ session.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the session expiry. Each Put refreshes it.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a session store on an existing Redis client.
// The caller owns the client lifecycle unless Close is used.
func NewStore(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		ttl:    DefaultTTL,
		logger: slog.Default().With("component", "redis-session-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves the state for a session.
func (s *Store) Get(ctx context.Context, id string) (*session.State, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrSessionNotFound
		}
		s.logger.Error("error reading session", "id", id, "err", err)
		return nil, err
	}

	var state session.State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Error("error decoding session", "id", id, "err", err)
		return nil, err
	}
	return &state, nil
}

// Put stores the state for a session and refreshes its TTL.
func (s *Store) Put(ctx context.Context, state *session.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, keyPrefix+state.ID, data, s.ttl).Err(); err != nil {
		s.logger.Error("error writing session", "id", state.ID, "err", err)
		return err
	}
	return nil
}

// Delete removes a session's state.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

// Close closes the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
