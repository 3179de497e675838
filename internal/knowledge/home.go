package knowledge

import (
	"context"
	"fmt"
	"time"

	"engsite/internal/models"
	"engsite/internal/store"
)

// FeedItem is an article or quiz teaser on the homepage.
type FeedItem struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
	Views    int    `json:"views"`
	Rating   int    `json:"rating"`
}

// SectionFeed is a random pick of a section's best rated items.
type SectionFeed struct {
	Section Section    `json:"section"`
	Items   []FeedItem `json:"items"`
}

// HomePage holds the homepage feeds.
type HomePage struct {
	LargeFeed []FeedItem    `json:"large_feed"`
	Sections  []SectionFeed `json:"materials_by_sections"`
}

// readingSections are the sections whose articles appear in feeds.
var readingSections = []Section{Topics, Phrasebook, Articles}

// Home builds the homepage: the most viewed reading material, and per
// section a sample drawn from its top rated items.
func (s *Service) Home(ctx context.Context) (_ *HomePage, err error) {
	defer s.metrics.ObservePage("home", time.Now(), &err)

	types := make([]models.CategoryType, len(readingSections))
	for i, sec := range readingSections {
		types[i] = sec.Type
	}

	large, err := s.articles.Popular(ctx, types, store.ByViews, s.feeds.Large)
	if err != nil {
		return nil, fmt.Errorf("large feed: %w", err)
	}
	page := HomePage{
		LargeFeed: s.feedItems(large),
		Sections:  make([]SectionFeed, 0, len(readingSections)+1),
	}

	for _, sec := range readingSections {
		pool, err := s.articles.Popular(ctx, []models.CategoryType{sec.Type}, store.ByRating, s.feeds.Pool)
		if err != nil {
			return nil, fmt.Errorf("%s feed: %w", sec.Slug, err)
		}
		page.Sections = append(page.Sections, SectionFeed{Section: sec, Items: s.feedItems(s.sample(ofType(pool, sec.Type)))})
	}

	pool, err := s.quizzes.Popular(ctx, store.ByRating, s.feeds.Pool)
	if err != nil {
		return nil, fmt.Errorf("%s feed: %w", Quizzes.Slug, err)
	}
	page.Sections = append(page.Sections, SectionFeed{Section: Quizzes, Items: s.feedItems(s.sample(ofType(pool, Quizzes.Type)))})

	return &page, nil
}

// sample shuffles a copy of pool and keeps the first feeds.Size entries.
func (s *Service) sample(pool []models.Popular) []models.Popular {
	picked := make([]models.Popular, len(pool))
	copy(picked, pool)
	s.shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if len(picked) > s.feeds.Size {
		picked = picked[:s.feeds.Size]
	}
	return picked
}

// ofType keeps the items filed under categories of type t. A section feed
// only links to pages its section can serve.
func ofType(pool []models.Popular, t models.CategoryType) []models.Popular {
	kept := make([]models.Popular, 0, len(pool))
	for _, p := range pool {
		if p.CategoryType == t {
			kept = append(kept, p)
		}
	}
	return kept
}

func (s *Service) feedItems(ps []models.Popular) []FeedItem {
	items := make([]FeedItem, 0, len(ps))
	for _, p := range ps {
		sec, ok := SectionByType(p.CategoryType)
		if !ok {
			continue
		}
		items = append(items, FeedItem{
			Title:    p.Title,
			URL:      sec.ItemURL(p.CategorySlug, p.Slug),
			ImageURL: s.imageURL(p.Image),
			Views:    p.Views,
			Rating:   p.Rating,
		})
	}
	return items
}
