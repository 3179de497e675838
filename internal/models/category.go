// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType partitions the shared categories table into sections.
type CategoryType string

const (
	CategoryTypeTopic      CategoryType = "TPC"
	CategoryTypePhrasebook CategoryType = "PRSBK"
	CategoryTypeArticle    CategoryType = "ART"
	CategoryTypeHandbook   CategoryType = "HNDBK"
	CategoryTypeQuiz       CategoryType = "QUIZ"
)

// CategoryTypes lists every known discriminant in display order.
var CategoryTypes = []CategoryType{
	CategoryTypeTopic,
	CategoryTypePhrasebook,
	CategoryTypeArticle,
	CategoryTypeHandbook,
	CategoryTypeQuiz,
}

// Valid reports whether t is one of the known discriminants.
func (t CategoryType) Valid() bool {
	for _, known := range CategoryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Category represents a hierarchical category of learning content.
// A category's parent, when set, is expected to share its Type; the database
// does not enforce this, store writes do.
type Category struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Title       string       `json:"title" db:"title" validate:"required,max=300"`
	Description string       `json:"description" db:"description" validate:"max=5000"`
	Slug        string       `json:"slug" db:"slug" validate:"required,slug,max=300"`
	Type        CategoryType `json:"type" db:"type" validate:"required,category_type"`
	ParentID    *uuid.UUID   `json:"parent_id" db:"parent_id"`
	Image       *string      `json:"image,omitempty" db:"image"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`

	// Virtual field populated by list queries: number of articles, or of
	// quizzes for QUIZ categories.
	ChildCount int `json:"child_count" db:"child_count"`
}

// ParentAllowed reports whether parent may be used as c's parent.
// A nil parent is always allowed.
func (c *Category) ParentAllowed(parent *Category) bool {
	if parent == nil {
		return true
	}
	if parent.ID == c.ID && c.ID != uuid.Nil {
		return false
	}
	return parent.Type == c.Type
}
