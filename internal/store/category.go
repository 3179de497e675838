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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sqlx.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sqlx.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

var categoryFields = []string{
	"id", "title", "description", "slug", "type", "parent_id", "image", "created_at", "updated_at",
}

// ListByType returns all categories of type t in creation order. ChildCount
// holds the number of quizzes for QUIZ categories and of articles otherwise.
func (s *CategoryStore) ListByType(ctx context.Context, t models.CategoryType) ([]models.Category, error) {
	items := []models.Category{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT `+columns("c", categoryFields)+`,
		       CASE WHEN c.type = 'QUIZ'
		            THEN (SELECT COUNT(*) FROM quizzes q WHERE q.category_id = c.id)
		            ELSE (SELECT COUNT(*) FROM articles a WHERE a.category_id = c.id)
		       END AS child_count
		FROM categories c
		WHERE c.type = $1
		ORDER BY c.created_at, c.id
	`, t)
	if err != nil {
		return nil, unavailable("list categories", err)
	}
	return items, nil
}

// FindBySlug retrieves a category by its slug.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.GetContext(ctx, &c, `SELECT `+columns("", categoryFields)+` FROM categories WHERE slug = $1`, slug)
	if err != nil {
		return nil, lookupErr("find category by slug", err)
	}
	return &c, nil
}

// FindByID retrieves a category by ID.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	err := s.db.GetContext(ctx, &c, `SELECT `+columns("", categoryFields)+` FROM categories WHERE id = $1`, id)
	if err != nil {
		return nil, lookupErr("find category by id", err)
	}
	return &c, nil
}

// checkParent enforces that c's parent exists and has the same type.
func (s *CategoryStore) checkParent(ctx context.Context, c *models.Category) error {
	if c.ParentID == nil {
		return nil
	}
	parent, err := s.FindByID(ctx, *c.ParentID)
	if err != nil {
		return err
	}
	if !c.ParentAllowed(parent) {
		return fmt.Errorf("category %q: parent %q has type %s: %w", c.Slug, parent.Slug, parent.Type, models.ErrIntegrity)
	}
	return nil
}

// Create inserts a new category and returns it. An empty slug is generated
// from the title.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Title)
	}
	if err := validate.Struct(c); err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	var out models.Category
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO categories (title, description, slug, type, parent_id, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+columns("", categoryFields),
		c.Title, c.Description, c.Slug, c.Type, c.ParentID, c.Image,
	).StructScan(&out)
	if err != nil {
		return nil, unavailable("create category", err)
	}
	return &out, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if err := s.checkParent(ctx, c); err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			title = $1, description = $2, slug = $3, type = $4,
			parent_id = $5, image = $6, updated_at = NOW()
		WHERE id = $7
	`, c.Title, c.Description, c.Slug, c.Type, c.ParentID, c.Image, c.ID)
	if err != nil {
		return unavailable("update category", err)
	}
	return affectedOne("update category", res)
}

// Delete removes a category by ID. Child categories and owned articles and
// quizzes are kept with their reference cleared (ON DELETE SET NULL).
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return unavailable("delete category", err)
	}
	return affectedOne("delete category", res)
}
