package knowledge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"engsite/internal/hierarchy"
	"engsite/internal/models"
	"engsite/internal/store"
)

type fakeCategories struct {
	byType map[models.CategoryType][]models.Category
	bySlug map[string]models.Category
}

func (f *fakeCategories) ListByType(_ context.Context, t models.CategoryType) ([]models.Category, error) {
	return f.byType[t], nil
}

func (f *fakeCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	c, ok := f.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("find category: %w", models.ErrNotFound)
	}
	return &c, nil
}

type fakeArticles struct {
	bySlug     map[string]models.ArticleDetail
	inCategory map[uuid.UUID][]models.Article
	firstChild map[uuid.UUID]models.Article
	views      map[uuid.UUID]int
	popular    map[store.Ranking][]models.Popular
	viewErr    error

	popularCalls []popularCall
}

type popularCall struct {
	types   []models.CategoryType
	ranking store.Ranking
	limit   int
}

func newFakeArticles() *fakeArticles {
	return &fakeArticles{
		bySlug:     map[string]models.ArticleDetail{},
		inCategory: map[uuid.UUID][]models.Article{},
		firstChild: map[uuid.UUID]models.Article{},
		views:      map[uuid.UUID]int{},
		popular:    map[store.Ranking][]models.Popular{},
	}
}

func (f *fakeArticles) ListInCategory(_ context.Context, id uuid.UUID) ([]models.Article, error) {
	items := f.inCategory[id]
	if items == nil {
		items = []models.Article{}
	}
	return items, nil
}

func (f *fakeArticles) FindBySlug(_ context.Context, slug string) (*models.ArticleDetail, error) {
	a, ok := f.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("find article: %w", models.ErrNotFound)
	}
	return &a, nil
}

func (f *fakeArticles) FirstChild(_ context.Context, id uuid.UUID) (*models.Article, error) {
	a, ok := f.firstChild[id]
	if !ok {
		return nil, fmt.Errorf("first child: %w", models.ErrNotFound)
	}
	return &a, nil
}

func (f *fakeArticles) IncrementViews(_ context.Context, id uuid.UUID) (int, error) {
	if f.viewErr != nil {
		return 0, f.viewErr
	}
	f.views[id]++
	return f.views[id], nil
}

func (f *fakeArticles) Popular(_ context.Context, types []models.CategoryType, ranking store.Ranking, limit int) ([]models.Popular, error) {
	f.popularCalls = append(f.popularCalls, popularCall{types: types, ranking: ranking, limit: limit})
	var out []models.Popular
	for _, p := range f.popular[ranking] {
		for _, t := range types {
			if p.CategoryType == t {
				out = append(out, p)
				break
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeQuizzes struct {
	bySlug     map[string]models.Quiz
	inCategory map[uuid.UUID][]models.Quiz
	questions  map[uuid.UUID][]models.Question
	results    map[uuid.UUID][]models.QuizResult
	views      map[uuid.UUID]int
	popular    []models.Popular
}

func newFakeQuizzes() *fakeQuizzes {
	return &fakeQuizzes{
		bySlug:     map[string]models.Quiz{},
		inCategory: map[uuid.UUID][]models.Quiz{},
		questions:  map[uuid.UUID][]models.Question{},
		results:    map[uuid.UUID][]models.QuizResult{},
		views:      map[uuid.UUID]int{},
	}
}

func (f *fakeQuizzes) ListInCategory(_ context.Context, id uuid.UUID) ([]models.Quiz, error) {
	return f.inCategory[id], nil
}

func (f *fakeQuizzes) FindBySlug(_ context.Context, slug string) (*models.Quiz, error) {
	q, ok := f.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("find quiz: %w", models.ErrNotFound)
	}
	return &q, nil
}

func (f *fakeQuizzes) Questions(_ context.Context, id uuid.UUID) ([]models.Question, error) {
	return f.questions[id], nil
}

func (f *fakeQuizzes) Results(_ context.Context, id uuid.UUID) ([]models.QuizResult, error) {
	return f.results[id], nil
}

func (f *fakeQuizzes) IncrementViews(_ context.Context, id uuid.UUID) (int, error) {
	f.views[id]++
	return f.views[id], nil
}

func (f *fakeQuizzes) Popular(_ context.Context, _ store.Ranking, limit int) ([]models.Popular, error) {
	out := f.popular
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeResolver struct {
	tree   []hierarchy.TreeNode
	chains map[uuid.UUID][]hierarchy.ChainNode
	err    error
	calls  int
}

func (f *fakeResolver) CategoryTree(context.Context, models.CategoryType) ([]hierarchy.TreeNode, error) {
	f.calls++
	return f.tree, f.err
}

func (f *fakeResolver) ChainsByOwner(context.Context, models.CategoryType) (map[uuid.UUID][]hierarchy.ChainNode, error) {
	return f.chains, f.err
}

// memCache round-trips values through JSON like the Valkey cache does.
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dst any) bool {
	b, ok := c.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (c *memCache) Set(_ context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err == nil {
		c.data[key] = b
	}
}

func (c *memCache) Invalidate(_ context.Context, keys ...string) int {
	n := 0
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n
}

func (c *memCache) InvalidateAll(context.Context) int {
	n := len(c.data)
	c.data = map[string][]byte{}
	return n
}

type recordingLog struct {
	entries []store.CacheLogEntry
}

func (l *recordingLog) Log(_ context.Context, e store.CacheLogEntry) {
	l.entries = append(l.entries, e)
}

// reverse is a deterministic Shuffler.
func reverse(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func ptr[T any](v T) *T { return &v }
