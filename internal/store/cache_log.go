// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache_log.go records cache invalidation events in the database for
// audit and debugging purposes. Each entry captures which cache scope was
// cleared, for which entity if any, and how many keys went away.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CacheLogEntry represents a single cache invalidation event.
type CacheLogEntry struct {
	ID            int64      `db:"id" json:"id"`
	Scope         string     `db:"scope" json:"scope"`
	EntityID      *uuid.UUID `db:"entity_id" json:"entity_id,omitempty"`
	Action        string     `db:"action" json:"action"`
	KeysDeleted   int        `db:"keys_deleted" json:"keys_deleted"`
	InvalidatedAt time.Time  `db:"invalidated_at" json:"invalidated_at"`
}

// CacheLogStore handles cache invalidation log operations.
type CacheLogStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewCacheLogStore creates a new CacheLogStore.
func NewCacheLogStore(db *sqlx.DB, logger *zap.Logger) *CacheLogStore {
	return &CacheLogStore{db: db, logger: logger}
}

// Log records a cache invalidation event. Failures are logged and
// otherwise ignored.
func (s *CacheLogStore) Log(ctx context.Context, e CacheLogEntry) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_invalidation_log (scope, entity_id, action, keys_deleted)
		VALUES ($1, $2, $3, $4)
	`, e.Scope, e.EntityID, e.Action, e.KeysDeleted)
	if err != nil {
		s.logger.Warn("failed to log cache invalidation",
			zap.String("scope", e.Scope),
			zap.String("action", e.Action),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("cache invalidation logged",
		zap.String("scope", e.Scope),
		zap.String("action", e.Action),
		zap.Int("keys_deleted", e.KeysDeleted),
	)
}

// RecentEntries returns the most recent cache invalidation events, newest
// first, limited to the specified count.
func (s *CacheLogStore) RecentEntries(ctx context.Context, limit int) ([]CacheLogEntry, error) {
	entries := []CacheLogEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, scope, entity_id, action, keys_deleted, invalidated_at
		FROM cache_invalidation_log
		ORDER BY invalidated_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, unavailable("recent cache log entries", err)
	}
	return entries, nil
}
