package knowledge

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"engsite/internal/cache"
	"engsite/internal/models"
	"engsite/internal/store"
)

// Invalidate drops cached view models after a content change and records
// the invalidation. Scope "handbook" drops the handbook index and a section
// slug drops that section's category list; any other scope drops every
// cached page. entityID may be nil for bulk changes such as a reseed. It
// returns the number of cache keys removed.
func (s *Service) Invalidate(ctx context.Context, scope string, entityID *uuid.UUID, action string) int {
	var n int
	if sec, err := SectionBySlug(scope); err == nil {
		n = s.cache.Invalidate(ctx, cachedKey(sec))
	} else {
		n = s.cache.InvalidateAll(ctx)
	}
	s.cacheLog.Log(ctx, store.CacheLogEntry{
		Scope:       scope,
		EntityID:    entityID,
		Action:      action,
		KeysDeleted: n,
	})
	s.logger.Info("content cache invalidated",
		zap.String("scope", scope),
		zap.String("action", action),
		zap.Int("keys_deleted", n),
	)
	return n
}

// cachedKey is the cache key of the page a section keeps cached.
func cachedKey(sec Section) string {
	if sec.Type == models.CategoryTypeHandbook {
		return cache.HandbookKey()
	}
	return cache.CategoriesKey(sec.Slug)
}
