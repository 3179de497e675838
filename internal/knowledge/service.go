// Package knowledge assembles the public pages of the knowledge base:
// the handbook index and lessons, section category lists, category
// listings, article and quiz detail pages, and the homepage feeds. Each
// method returns a view model ready for an external renderer.
package knowledge

import (
	"context"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"engsite/internal/hierarchy"
	"engsite/internal/metrics"
	"engsite/internal/models"
	"engsite/internal/store"
)

// CategoryRepo reads categories.
type CategoryRepo interface {
	ListByType(ctx context.Context, t models.CategoryType) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// ArticleRepo reads articles and bumps their view counters.
type ArticleRepo interface {
	ListInCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Article, error)
	FindBySlug(ctx context.Context, slug string) (*models.ArticleDetail, error)
	FirstChild(ctx context.Context, id uuid.UUID) (*models.Article, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int, error)
	Popular(ctx context.Context, types []models.CategoryType, ranking store.Ranking, limit int) ([]models.Popular, error)
}

// QuizRepo reads quizzes and bumps their view counters.
type QuizRepo interface {
	ListInCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Quiz, error)
	FindBySlug(ctx context.Context, slug string) (*models.Quiz, error)
	Questions(ctx context.Context, quizID uuid.UUID) ([]models.Question, error)
	Results(ctx context.Context, quizID uuid.UUID) ([]models.QuizResult, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int, error)
	Popular(ctx context.Context, ranking store.Ranking, limit int) ([]models.Popular, error)
}

// Resolver rebuilds category trees and lesson chains.
type Resolver interface {
	CategoryTree(ctx context.Context, t models.CategoryType) ([]hierarchy.TreeNode, error)
	ChainsByOwner(ctx context.Context, t models.CategoryType) (map[uuid.UUID][]hierarchy.ChainNode, error)
}

// Cache stores view models between requests. Misses and failures are
// indistinguishable to the service.
type Cache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	Invalidate(ctx context.Context, keys ...string) int
	InvalidateAll(ctx context.Context) int
}

// InvalidationLog records cache invalidations.
type InvalidationLog interface {
	Log(ctx context.Context, e store.CacheLogEntry)
}

// Shuffler permutes n elements through swap, with the signature of
// rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// FeedSizes bounds the homepage feeds.
type FeedSizes struct {
	Pool  int // top-rated candidates fetched per section
	Size  int // items sampled from the pool
	Large int // items in the most-viewed feed
}

// Deps are the collaborators of a Service. Cache and CacheLog are optional.
type Deps struct {
	Categories CategoryRepo
	Articles   ArticleRepo
	Quizzes    QuizRepo
	Resolver   Resolver
	Cache      Cache
	CacheLog   InvalidationLog
}

// Service builds page view models.
type Service struct {
	categories CategoryRepo
	articles   ArticleRepo
	quizzes    QuizRepo
	resolver   Resolver
	cache      Cache
	cacheLog   InvalidationLog

	shuffle  Shuffler
	feeds    FeedSizes
	mediaURL string
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithShuffler replaces the randomness used for answer order and feed sampling.
func WithShuffler(s Shuffler) Option {
	return func(svc *Service) { svc.shuffle = s }
}

// WithFeedSizes overrides the default feed sizes.
func WithFeedSizes(f FeedSizes) Option {
	return func(svc *Service) { svc.feeds = f }
}

// WithMediaURL sets the prefix joined to stored image paths.
func WithMediaURL(url string) Option {
	return func(svc *Service) { svc.mediaURL = strings.TrimRight(url, "/") }
}

// WithMetrics records page builds, cache lookups and views on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// NewService returns a Service over d.
func NewService(d Deps, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		categories: d.Categories,
		articles:   d.Articles,
		quizzes:    d.Quizzes,
		resolver:   d.Resolver,
		cache:      d.Cache,
		cacheLog:   d.CacheLog,
		shuffle:    rand.Shuffle,
		feeds:      FeedSizes{Pool: 12, Size: 4, Large: 6},
		mediaURL:   "/media",
		metrics:    metrics.New(prometheus.NewRegistry()),
		logger:     logger,
	}
	if s.cache == nil {
		s.cache = nopCache{}
	}
	if s.cacheLog == nil {
		s.cacheLog = nopLog{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// imageURL joins a stored image path to the media prefix. Empty when the
// item has no image.
func (s *Service) imageURL(path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	return s.mediaURL + "/" + strings.TrimLeft(*path, "/")
}

type nopCache struct{}

func (nopCache) Get(context.Context, string, any) bool     { return false }
func (nopCache) Set(context.Context, string, any)          {}
func (nopCache) Invalidate(context.Context, ...string) int { return 0 }
func (nopCache) InvalidateAll(context.Context) int         { return 0 }

type nopLog struct{}

func (nopLog) Log(context.Context, store.CacheLogEntry) {}
