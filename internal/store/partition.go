// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"engsite/internal/hierarchy"
	"engsite/internal/models"
)

// PartitionStore reads whole type partitions for the hierarchy resolver.
// Each method issues exactly one query.
type PartitionStore struct {
	db *sqlx.DB
}

// NewPartitionStore returns a new PartitionStore.
func NewPartitionStore(db *sqlx.DB) *PartitionStore {
	return &PartitionStore{db: db}
}

var _ hierarchy.Source = (*PartitionStore)(nil)

// CategoryPartition returns every category of type t.
func (s *PartitionStore) CategoryPartition(ctx context.Context, t models.CategoryType) ([]hierarchy.TreeNode, error) {
	nodes := []hierarchy.TreeNode{}
	err := s.db.SelectContext(ctx, &nodes, `
		SELECT id, title, parent_id, slug, type
		FROM categories
		WHERE type = $1
		ORDER BY created_at, id
	`, t)
	if err != nil {
		return nil, unavailable("category partition", err)
	}
	return nodes, nil
}

// lessonRow is one row of the owner/lesson outer join. Lesson columns are
// NULL for owners without articles.
type lessonRow struct {
	OwnerID  uuid.UUID  `db:"owner_id"`
	ID       *uuid.UUID `db:"id"`
	Title    *string    `db:"title"`
	ParentID *uuid.UUID `db:"parent_id"`
	Slug     *string    `db:"slug"`
}

// LessonPartition returns every category of type t and the articles it
// owns. Owners come in creation order, and so do lessons within an owner.
func (s *PartitionStore) LessonPartition(ctx context.Context, t models.CategoryType) (hierarchy.LessonPartition, error) {
	var rows []lessonRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.id AS owner_id, a.id, a.title, a.parent_id, a.slug
		FROM categories c
		LEFT JOIN articles a ON a.category_id = c.id
		WHERE c.type = $1
		ORDER BY c.created_at, c.id, a.created_at, a.id
	`, t)
	if err != nil {
		return hierarchy.LessonPartition{}, unavailable("lesson partition", err)
	}

	part := hierarchy.LessonPartition{
		Owners:  []uuid.UUID{},
		Lessons: []hierarchy.ChainNode{},
	}
	seen := make(map[uuid.UUID]bool)
	for _, r := range rows {
		if !seen[r.OwnerID] {
			seen[r.OwnerID] = true
			part.Owners = append(part.Owners, r.OwnerID)
		}
		if r.ID == nil {
			continue
		}
		part.Lessons = append(part.Lessons, hierarchy.ChainNode{
			ID:       *r.ID,
			Title:    deref(r.Title),
			ParentID: r.ParentID,
			OwnerID:  r.OwnerID,
			Slug:     deref(r.Slug),
		})
	}
	return part, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
