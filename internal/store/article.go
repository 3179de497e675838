// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"engsite/internal/models"
	"engsite/internal/slug"
	"engsite/internal/validate"
)

// ArticleStore handles all article-related database operations. Topics,
// handbook lessons, phrasebook entries and plain articles share one table.
type ArticleStore struct {
	db *sqlx.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

var articleFields = []string{
	"id", "title", "content", "slug", "rating", "views", "time_for_read",
	"parent_id", "category_id", "image", "created_at", "updated_at",
}

// ListInCategory returns the articles owned by a category in creation order.
func (s *ArticleStore) ListInCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Article, error) {
	items := []models.Article{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT `+columns("", articleFields)+`
		FROM articles
		WHERE category_id = $1
		ORDER BY created_at, id
	`, categoryID)
	if err != nil {
		return nil, unavailable("list articles in category", err)
	}
	return items, nil
}

// FindBySlug retrieves an article with its owning category and parent.
func (s *ArticleStore) FindBySlug(ctx context.Context, slug string) (*models.ArticleDetail, error) {
	var a models.ArticleDetail
	err := s.db.GetContext(ctx, &a, `
		SELECT `+columns("a", articleFields)+`,
		       c.slug AS category_slug, c.title AS category_title, c.type AS category_type,
		       p.slug AS parent_slug, p.title AS parent_title
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		LEFT JOIN articles p ON p.id = a.parent_id
		WHERE a.slug = $1
	`, slug)
	if err != nil {
		return nil, lookupErr("find article by slug", err)
	}
	return &a, nil
}

// FirstChild returns the earliest article whose parent is id.
func (s *ArticleStore) FirstChild(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var a models.Article
	err := s.db.GetContext(ctx, &a, `
		SELECT `+columns("", articleFields)+`
		FROM articles
		WHERE parent_id = $1
		ORDER BY created_at, id
		LIMIT 1
	`, id)
	if err != nil {
		return nil, lookupErr("find first child article", err)
	}
	return &a, nil
}

// IncrementViews adds one to an article's view counter and returns the new
// value. The counter is read and then written back in two statements, so
// concurrent readers of the same article can overwrite each other and lose
// increments. The counter never decreases.
func (s *ArticleStore) IncrementViews(ctx context.Context, id uuid.UUID) (int, error) {
	return incrementViews(ctx, s.db, "articles", id)
}

// incrementViews implements the read-then-write counter shared by articles
// and quizzes. table is a trusted constant.
func incrementViews(ctx context.Context, db *sqlx.DB, table string, id uuid.UUID) (int, error) {
	op := "increment " + table + " views"

	var views int
	if err := db.GetContext(ctx, &views, `SELECT views FROM `+table+` WHERE id = $1`, id); err != nil {
		return 0, lookupErr(op, err)
	}

	views++
	res, err := db.ExecContext(ctx, `UPDATE `+table+` SET views = $1 WHERE id = $2`, views, id)
	if err != nil {
		return 0, unavailable(op, err)
	}
	if err := affectedOne(op, res); err != nil {
		return 0, err
	}
	return views, nil
}

// Popular returns up to limit articles whose category has one of types,
// ordered by ranking.
func (s *ArticleStore) Popular(ctx context.Context, types []models.CategoryType, ranking Ranking, limit int) ([]models.Popular, error) {
	items := []models.Popular{}
	if len(types) == 0 || limit <= 0 {
		return items, nil
	}

	query, args, err := sqlx.In(`
		SELECT a.id, a.title, a.slug, a.views, a.rating, a.image,
		       c.slug AS category_slug, c.type AS category_type
		FROM articles a
		JOIN categories c ON c.id = a.category_id
		WHERE c.type IN (?)
		ORDER BY `+ranking.orderBy("a")+`
		LIMIT ?
	`, types, limit)
	if err != nil {
		return nil, fmt.Errorf("popular articles: %w", err)
	}

	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, unavailable("popular articles", err)
	}
	return items, nil
}

// checkArticleParent rejects an article that names itself as its parent.
func checkArticleParent(a *models.Article) error {
	if a.ParentID != nil && a.ID != uuid.Nil && *a.ParentID == a.ID {
		return fmt.Errorf("article %q is its own parent: %w", a.Slug, models.ErrIntegrity)
	}
	return nil
}

// Create inserts a new article and returns it.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	if a.Slug == "" {
		a.Slug = slug.Generate(a.Title)
	}
	if err := validate.Struct(a); err != nil {
		return nil, err
	}
	if err := checkArticleParent(a); err != nil {
		return nil, err
	}

	var out models.Article
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO articles (title, content, slug, rating, views, time_for_read, parent_id, category_id, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+columns("", articleFields),
		a.Title, a.Content, a.Slug, a.Rating, a.Views, a.MinutesToRead, a.ParentID, a.CategoryID, a.Image,
	).StructScan(&out)
	if err != nil {
		return nil, unavailable("create article", err)
	}
	return &out, nil
}

// Update modifies an existing article. The view counter is left untouched.
func (s *ArticleStore) Update(ctx context.Context, a *models.Article) error {
	if err := validate.Struct(a); err != nil {
		return err
	}
	if err := checkArticleParent(a); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET
			title = $1, content = $2, slug = $3, rating = $4, time_for_read = $5,
			parent_id = $6, category_id = $7, image = $8, updated_at = NOW()
		WHERE id = $9
	`, a.Title, a.Content, a.Slug, a.Rating, a.MinutesToRead, a.ParentID, a.CategoryID, a.Image, a.ID)
	if err != nil {
		return unavailable("update article", err)
	}
	return affectedOne("update article", res)
}

// Delete removes an article. Its children keep existing with a cleared
// parent (ON DELETE SET NULL).
func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return unavailable("delete article", err)
	}
	return affectedOne("delete article", res)
}
