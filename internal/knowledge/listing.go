package knowledge

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"engsite/internal/cache"
	"engsite/internal/models"
	"engsite/internal/plural"
)

// CategoryCard is one entry of a section's category list.
type CategoryCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
	ChildCount  int    `json:"child_count"`
}

// CategoriesPage lists the categories of one section.
type CategoriesPage struct {
	Section     Section        `json:"section"`
	Categories  []CategoryCard `json:"categories"`
	Breadcrumbs []Crumb        `json:"breadcrumbs"`
}

// ListingItem is an article or quiz inside a category listing.
type ListingItem struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
	Views       int    `json:"views"`
	Rating      int    `json:"rating"`
	ReadingTime string `json:"reading_time"`
}

// CategoryListingPage lists the items of one category.
type CategoryListingPage struct {
	Section     Section         `json:"section"`
	Category    models.Category `json:"category"`
	Items       []ListingItem   `json:"items"`
	Breadcrumbs []Crumb         `json:"breadcrumbs"`
}

// ArticlePage is the detail page of a topic, phrasebook entry or article.
type ArticlePage struct {
	Section     Section              `json:"section"`
	Article     models.ArticleDetail `json:"article"`
	ImageURL    string               `json:"image_url"`
	ReadingTime string               `json:"reading_time"`
	Breadcrumbs []Crumb              `json:"breadcrumbs"`
}

// Categories returns the category list of a section, from cache when
// possible. The handbook has its own index and is not listed here.
func (s *Service) Categories(ctx context.Context, section string) (_ *CategoriesPage, err error) {
	defer s.metrics.ObservePage("categories", time.Now(), &err)

	sec, err := SectionBySlug(section)
	if err != nil {
		return nil, err
	}
	if sec.Type == models.CategoryTypeHandbook {
		return nil, fmt.Errorf("section %q has no category list: %w", section, models.ErrNotFound)
	}

	var cached CategoriesPage
	key := cache.CategoriesKey(sec.Slug)
	hit := s.cache.Get(ctx, key, &cached)
	s.metrics.CacheLookup("categories", hit)
	if hit {
		return &cached, nil
	}

	page, err := s.buildCategories(ctx, sec)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, page)
	return page, nil
}

func (s *Service) buildCategories(ctx context.Context, sec Section) (*CategoriesPage, error) {
	cats, err := s.categories.ListByType(ctx, sec.Type)
	if err != nil {
		return nil, err
	}
	page := CategoriesPage{
		Section:     sec,
		Categories:  make([]CategoryCard, 0, len(cats)),
		Breadcrumbs: crumbs(sec.crumb()),
	}
	for _, c := range cats {
		page.Categories = append(page.Categories, CategoryCard{
			Title:       c.Title,
			Description: c.Description,
			Slug:        c.Slug,
			URL:         sec.CategoryURL(c.Slug),
			ImageURL:    s.imageURL(c.Image),
			ChildCount:  c.ChildCount,
		})
	}
	return &page, nil
}

// CategoryListing returns the articles, or quizzes, of one category. The
// category must belong to the section.
func (s *Service) CategoryListing(ctx context.Context, section, categorySlug string) (_ *CategoryListingPage, err error) {
	defer s.metrics.ObservePage("category_listing", time.Now(), &err)

	sec, err := SectionBySlug(section)
	if err != nil {
		return nil, err
	}
	c, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if c.Type != sec.Type {
		return nil, fmt.Errorf("category %q in section %q: %w", categorySlug, section, models.ErrNotFound)
	}

	page := CategoryListingPage{
		Section:  sec,
		Category: *c,
		Items:    []ListingItem{},
		Breadcrumbs: crumbs(
			sec.crumb(),
			Crumb{Label: c.Title, URL: sec.CategoryURL(c.Slug)},
		),
	}

	if sec.Type == models.CategoryTypeQuiz {
		quizzes, err := s.quizzes.ListInCategory(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, q := range quizzes {
			page.Items = append(page.Items, ListingItem{
				Title:       q.Title,
				Slug:        q.Slug,
				URL:         sec.ItemURL(c.Slug, q.Slug),
				ImageURL:    s.imageURL(q.Image),
				Views:       q.Views,
				Rating:      q.Rating,
				ReadingTime: plural.Minutes(q.MinutesToRead),
			})
		}
		return &page, nil
	}

	articles, err := s.articles.ListInCategory(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		page.Items = append(page.Items, ListingItem{
			Title:       a.Title,
			Slug:        a.Slug,
			URL:         sec.ItemURL(c.Slug, a.Slug),
			ImageURL:    s.imageURL(a.Image),
			Views:       a.Views,
			Rating:      a.Rating,
			ReadingTime: plural.Minutes(a.MinutesToRead),
		})
	}
	return &page, nil
}

// Article returns an article detail page and records a view. The article's
// category must match both the section and categorySlug.
func (s *Service) Article(ctx context.Context, section, categorySlug, slug string) (_ *ArticlePage, err error) {
	defer s.metrics.ObservePage("article", time.Now(), &err)

	sec, err := SectionBySlug(section)
	if err != nil {
		return nil, err
	}
	switch sec.Type {
	case models.CategoryTypeQuiz, models.CategoryTypeHandbook:
		return nil, fmt.Errorf("section %q has no articles: %w", section, models.ErrNotFound)
	}

	a, err := s.articles.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !a.InSection(sec.Type, categorySlug) {
		return nil, fmt.Errorf("article %q in %s/%s: %w", slug, section, categorySlug, models.ErrNotFound)
	}

	views, err := s.articles.IncrementViews(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	s.metrics.ViewRecorded("article")
	a.Views = views

	categoryTitle := categorySlug
	if a.CategoryTitle != nil {
		categoryTitle = *a.CategoryTitle
	}

	s.logger.Debug("article served", zap.String("section", section), zap.String("slug", slug), zap.Int("views", views))
	return &ArticlePage{
		Section:     sec,
		Article:     *a,
		ImageURL:    s.imageURL(a.Image),
		ReadingTime: plural.Minutes(a.MinutesToRead),
		Breadcrumbs: crumbs(
			sec.crumb(),
			Crumb{Label: categoryTitle, URL: sec.CategoryURL(categorySlug)},
			Crumb{Label: a.Title, URL: sec.ItemURL(categorySlug, a.Slug)},
		),
	}, nil
}
