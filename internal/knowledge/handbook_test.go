package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"engsite/internal/hierarchy"
	"engsite/internal/models"
)

func TestHandbook(t *testing.T) {
	grammar := uuid.New()
	tenses := uuid.New()
	l1, l2 := uuid.New(), uuid.New()

	res := &fakeResolver{
		tree: []hierarchy.TreeNode{
			{ID: grammar, Title: "Grammar", Slug: "grammar", Type: models.CategoryTypeHandbook},
			{ID: tenses, Title: "Tenses", Slug: "tenses", ParentID: &grammar, Type: models.CategoryTypeHandbook},
		},
		chains: map[uuid.UUID][]hierarchy.ChainNode{
			grammar: {},
			tenses: {
				{ID: l1, Title: "Present Simple", Slug: "present-simple", OwnerID: tenses},
				{ID: l2, Title: "Past Simple", Slug: "past-simple", ParentID: &l1, OwnerID: tenses},
			},
		},
	}
	svc := NewService(Deps{Resolver: res}, zap.NewNop())

	page, err := svc.Handbook(context.Background())
	require.NoError(t, err)

	require.Len(t, page.Topics, 2)
	assert.Equal(t, "grammar", page.Topics[0].Slug)
	assert.Equal(t, 0, page.Topics[0].Depth)
	assert.Empty(t, page.Topics[0].Lessons)
	assert.NotNil(t, page.Topics[0].Lessons)
	assert.Equal(t, "0 уроков", page.Topics[0].LessonCount)

	assert.Equal(t, "tenses", page.Topics[1].Slug)
	assert.Equal(t, 1, page.Topics[1].Depth)
	assert.Equal(t, "2 урока", page.Topics[1].LessonCount)
	assert.Equal(t, l1, page.Topics[1].Lessons[0].ID)
	assert.Equal(t, l2, page.Topics[1].Lessons[1].ID)

	assert.Equal(t, []Crumb{{HomeLabel, "/"}, {"Справочник", "/handbook/"}}, page.Breadcrumbs)
}

func TestHandbookOwnerWithoutKey(t *testing.T) {
	id := uuid.New()
	res := &fakeResolver{
		tree:   []hierarchy.TreeNode{{ID: id, Title: "Orphaned", Slug: "orphaned"}},
		chains: map[uuid.UUID][]hierarchy.ChainNode{},
	}
	svc := NewService(Deps{Resolver: res}, zap.NewNop())

	page, err := svc.Handbook(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Topics, 1)
	assert.NotNil(t, page.Topics[0].Lessons)
	assert.Empty(t, page.Topics[0].Lessons)
}

func TestHandbookServedFromCache(t *testing.T) {
	id := uuid.New()
	res := &fakeResolver{
		tree:   []hierarchy.TreeNode{{ID: id, Title: "Grammar", Slug: "grammar"}},
		chains: map[uuid.UUID][]hierarchy.ChainNode{id: {}},
	}
	c := newMemCache()
	svc := NewService(Deps{Resolver: res, Cache: c}, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Handbook(ctx)
	require.NoError(t, err)
	second, err := svc.Handbook(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, res.calls)
	assert.Equal(t, first.Topics[0].Slug, second.Topics[0].Slug)

	svc.Invalidate(ctx, "handbook", nil, "update")
	_, err = svc.Handbook(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.calls)
}

func TestHandbookStoreUnavailable(t *testing.T) {
	res := &fakeResolver{err: models.ErrStoreUnavailable}
	c := newMemCache()
	svc := NewService(Deps{Resolver: res, Cache: c}, zap.NewNop())

	_, err := svc.Handbook(context.Background())
	assert.True(t, errors.Is(err, models.ErrStoreUnavailable))
	assert.Empty(t, c.data, "failures must not be cached")
}

func handbookLesson(slug, title string) models.ArticleDetail {
	return models.ArticleDetail{
		Article: models.Article{
			ID:            uuid.New(),
			Title:         title,
			Slug:          slug,
			MinutesToRead: 3,
			Views:         10,
			Image:         ptr("lessons/" + slug + ".png"),
		},
		CategorySlug: ptr("tenses"),
		CategoryType: ptr(models.CategoryTypeHandbook),
	}
}

func TestLesson(t *testing.T) {
	arts := newFakeArticles()
	lesson := handbookLesson("past-simple", "Past Simple")
	lesson.ParentSlug = ptr("present-simple")
	lesson.ParentTitle = ptr("Present Simple")
	arts.bySlug[lesson.Slug] = lesson
	arts.firstChild[lesson.ID] = models.Article{Title: "Future Simple", Slug: "future-simple"}
	arts.views[lesson.ID] = 10

	svc := NewService(Deps{Articles: arts}, zap.NewNop(), WithMediaURL("https://cdn.example.com/media/"))

	page, err := svc.Lesson(context.Background(), "past-simple")
	require.NoError(t, err)

	assert.Equal(t, 11, page.Lesson.Views)
	assert.Equal(t, "3 минуты", page.ReadingTime)
	assert.Equal(t, "https://cdn.example.com/media/lessons/past-simple.png", page.ImageURL)
	require.NotNil(t, page.Previous)
	assert.Equal(t, Link{Title: "Present Simple", URL: "/handbook/present-simple/"}, *page.Previous)
	require.NotNil(t, page.Next)
	assert.Equal(t, Link{Title: "Future Simple", URL: "/handbook/future-simple/"}, *page.Next)
	assert.Equal(t, []Crumb{
		{HomeLabel, "/"},
		{"Справочник", "/handbook/"},
		{"Past Simple", "/handbook/past-simple/"},
	}, page.Breadcrumbs)
}

func TestLessonChainEnds(t *testing.T) {
	arts := newFakeArticles()
	lesson := handbookLesson("present-simple", "Present Simple")
	arts.bySlug[lesson.Slug] = lesson

	svc := NewService(Deps{Articles: arts}, zap.NewNop())

	page, err := svc.Lesson(context.Background(), "present-simple")
	require.NoError(t, err)
	assert.Nil(t, page.Previous)
	assert.Nil(t, page.Next)
}

func TestLessonOutsideHandbook(t *testing.T) {
	arts := newFakeArticles()
	a := handbookLesson("travel", "Travel")
	a.CategoryType = ptr(models.CategoryTypeTopic)
	arts.bySlug[a.Slug] = a

	svc := NewService(Deps{Articles: arts}, zap.NewNop())

	_, err := svc.Lesson(context.Background(), "travel")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, arts.views[a.ID], "a rejected lesson must not count a view")

	_, err = svc.Lesson(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestWarmFillsCache(t *testing.T) {
	id := uuid.New()
	res := &fakeResolver{
		tree:   []hierarchy.TreeNode{{ID: id, Title: "Grammar", Slug: "grammar"}},
		chains: map[uuid.UUID][]hierarchy.ChainNode{id: {}},
	}
	cats := &fakeCategories{byType: map[models.CategoryType][]models.Category{
		models.CategoryTypeTopic: {{ID: uuid.New(), Title: "Travel", Slug: "travel"}},
	}}
	c := newMemCache()
	svc := NewService(Deps{Resolver: res, Categories: cats, Cache: c}, zap.NewNop())

	require.NoError(t, svc.Warm(context.Background()))

	assert.Len(t, c.data, 5)
	assert.Contains(t, c.data, "handbook")
	assert.Contains(t, c.data, "categories:quizzes")
	assert.NotContains(t, c.data, "categories:handbook")

	_, err := svc.Handbook(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.calls, "handbook must be served from the warmed cache")
}

func TestWarmStopsOnError(t *testing.T) {
	res := &fakeResolver{err: models.ErrStoreUnavailable}
	c := newMemCache()
	svc := NewService(Deps{Resolver: res, Categories: &fakeCategories{}, Cache: c}, zap.NewNop())

	err := svc.Warm(context.Background())
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.Empty(t, c.data)
}
