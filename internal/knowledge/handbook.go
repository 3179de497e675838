package knowledge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"engsite/internal/cache"
	"engsite/internal/hierarchy"
	"engsite/internal/models"
	"engsite/internal/plural"
)

// HandbookTopic is one handbook category with its ordered lessons.
type HandbookTopic struct {
	ID          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Slug        string                `json:"slug"`
	Depth       int                   `json:"depth"`
	Lessons     []hierarchy.ChainNode `json:"lessons"`
	LessonCount string                `json:"lesson_count"`
}

// HandbookPage is the handbook index: every reachable handbook category in
// depth-first order, each carrying its lesson chain.
type HandbookPage struct {
	Topics      []HandbookTopic `json:"topics"`
	Breadcrumbs []Crumb         `json:"breadcrumbs"`
}

// Link points at a neighbouring page.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LessonPage is a single handbook lesson with links along its chain.
type LessonPage struct {
	Lesson      models.ArticleDetail `json:"lesson"`
	ImageURL    string               `json:"image_url"`
	ReadingTime string               `json:"reading_time"`
	Previous    *Link                `json:"previous"`
	Next        *Link                `json:"next"`
	Breadcrumbs []Crumb              `json:"breadcrumbs"`
}

// Handbook returns the handbook index, from cache when possible.
func (s *Service) Handbook(ctx context.Context) (_ *HandbookPage, err error) {
	defer s.metrics.ObservePage("handbook", time.Now(), &err)

	var cached HandbookPage
	hit := s.cache.Get(ctx, cache.HandbookKey(), &cached)
	s.metrics.CacheLookup("handbook", hit)
	if hit {
		return &cached, nil
	}

	page, err := s.buildHandbook(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.HandbookKey(), page)
	return page, nil
}

func (s *Service) buildHandbook(ctx context.Context) (*HandbookPage, error) {
	nodes, err := s.resolver.CategoryTree(ctx, models.CategoryTypeHandbook)
	if err != nil {
		return nil, fmt.Errorf("handbook tree: %w", err)
	}
	chains, err := s.resolver.ChainsByOwner(ctx, models.CategoryTypeHandbook)
	if err != nil {
		return nil, fmt.Errorf("handbook chains: %w", err)
	}

	flat := hierarchy.Flatten(hierarchy.Nest(nodes))
	page := HandbookPage{
		Topics:      make([]HandbookTopic, 0, len(flat)),
		Breadcrumbs: crumbs(Handbook.crumb()),
	}
	for _, b := range flat {
		lessons := chains[b.ID]
		if lessons == nil {
			lessons = []hierarchy.ChainNode{}
		}
		page.Topics = append(page.Topics, HandbookTopic{
			ID:          b.ID,
			Title:       b.Title,
			Slug:        b.Slug,
			Depth:       b.Depth,
			Lessons:     lessons,
			LessonCount: plural.Lessons(len(lessons)),
		})
	}
	return &page, nil
}

// Lesson returns a handbook lesson and records a view. The previous link
// points at the lesson's parent, the next link at its first child.
func (s *Service) Lesson(ctx context.Context, slug string) (_ *LessonPage, err error) {
	defer s.metrics.ObservePage("lesson", time.Now(), &err)

	a, err := s.articles.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !a.InSection(models.CategoryTypeHandbook, "") {
		return nil, fmt.Errorf("lesson %q: %w", slug, models.ErrNotFound)
	}

	page := LessonPage{
		ImageURL:    s.imageURL(a.Image),
		ReadingTime: plural.Minutes(a.MinutesToRead),
		Breadcrumbs: crumbs(Handbook.crumb(), Crumb{Label: a.Title, URL: Handbook.ItemURL("", a.Slug)}),
	}
	if a.ParentSlug != nil {
		title := ""
		if a.ParentTitle != nil {
			title = *a.ParentTitle
		}
		page.Previous = &Link{Title: title, URL: Handbook.ItemURL("", *a.ParentSlug)}
	}

	next, err := s.articles.FirstChild(ctx, a.ID)
	switch {
	case errors.Is(err, models.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		page.Next = &Link{Title: next.Title, URL: Handbook.ItemURL("", next.Slug)}
	}

	views, err := s.articles.IncrementViews(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	s.metrics.ViewRecorded("lesson")
	a.Views = views
	page.Lesson = *a

	s.logger.Debug("lesson served", zap.String("slug", slug), zap.Int("views", views))
	return &page, nil
}
