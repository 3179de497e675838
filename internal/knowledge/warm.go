package knowledge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"engsite/internal/cache"
	"engsite/internal/models"
)

// Warm rebuilds every cached page and overwrites its cache entry. Pages
// built before a failure stay cached.
func (s *Service) Warm(ctx context.Context) error {
	hb, err := s.buildHandbook(ctx)
	if err != nil {
		return fmt.Errorf("warm handbook: %w", err)
	}
	s.cache.Set(ctx, cache.HandbookKey(), hb)

	warmed := 1
	for _, sec := range Sections {
		if sec.Type == models.CategoryTypeHandbook {
			continue
		}
		page, err := s.buildCategories(ctx, sec)
		if err != nil {
			return fmt.Errorf("warm %s categories: %w", sec.Slug, err)
		}
		s.cache.Set(ctx, cache.CategoriesKey(sec.Slug), page)
		warmed++
	}

	s.logger.Debug("content cache warmed", zap.Int("pages", warmed))
	return nil
}
