// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxRating is the highest editorial rating an article or quiz can carry.
const MaxRating = 5

// Article is a piece of rich-text content. Topics, handbook lessons,
// phrasebook entries and plain articles all live in this table and are told
// apart only by the type of their owning category.
type Article struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Title         string     `json:"title" db:"title" validate:"required,max=300"`
	Content       string     `json:"content" db:"content" validate:"max=200000"`
	Slug          string     `json:"slug" db:"slug" validate:"required,slug,max=300"`
	Rating        int        `json:"rating" db:"rating" validate:"min=0,max=5"`
	Views         int        `json:"views" db:"views" validate:"min=0"`
	MinutesToRead int        `json:"time_for_read" db:"time_for_read" validate:"min=1"`
	ParentID      *uuid.UUID `json:"parent_id" db:"parent_id"`
	CategoryID    *uuid.UUID `json:"category_id" db:"category_id"`
	Image         *string    `json:"image,omitempty" db:"image"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// ArticleDetail is an article joined with its owning category, as needed by
// detail pages for breadcrumbs and section checks.
type ArticleDetail struct {
	Article
	CategorySlug  *string       `json:"category_slug" db:"category_slug"`
	CategoryTitle *string       `json:"category_title" db:"category_title"`
	CategoryType  *CategoryType `json:"category_type" db:"category_type"`
	ParentSlug    *string       `json:"parent_slug" db:"parent_slug"`
	ParentTitle   *string       `json:"parent_title" db:"parent_title"`
}

// InSection reports whether the article's category has type t and slug
// categorySlug. An empty categorySlug only checks the type.
func (a *ArticleDetail) InSection(t CategoryType, categorySlug string) bool {
	if a.CategoryType == nil || *a.CategoryType != t {
		return false
	}
	if categorySlug == "" {
		return true
	}
	return a.CategorySlug != nil && *a.CategorySlug == categorySlug
}

// Popular is a feed entry: the minimal projection of an article or quiz
// needed by homepage feeds.
type Popular struct {
	ID           uuid.UUID    `db:"id"`
	Title        string       `db:"title"`
	Slug         string       `db:"slug"`
	Views        int          `db:"views"`
	Rating       int          `db:"rating"`
	Image        *string      `db:"image"`
	CategorySlug string       `db:"category_slug"`
	CategoryType CategoryType `db:"category_type"`
}
