// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements PostgreSQL persistence for categories, articles
// and quizzes. Every method issues its queries through sqlx; a missing row
// is reported as models.ErrNotFound and any driver failure is wrapped with
// models.ErrStoreUnavailable.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"engsite/internal/models"
)

// Ranking selects the ordering used by Popular queries.
type Ranking int

const (
	// ByRating orders by editorial rating, then views.
	ByRating Ranking = iota
	// ByViews orders by views only.
	ByViews
)

func (r Ranking) orderBy(alias string) string {
	if r == ByViews {
		return fmt.Sprintf("%[1]s.views DESC, %[1]s.id", alias)
	}
	return fmt.Sprintf("%[1]s.rating DESC, %[1]s.views DESC, %[1]s.id", alias)
}

// columns renders a column list, optionally qualified with a table alias.
func columns(alias string, names []string) string {
	if alias == "" {
		return strings.Join(names, ", ")
	}
	qualified := make([]string, len(names))
	for i, n := range names {
		qualified[i] = alias + "." + n
	}
	return strings.Join(qualified, ", ")
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}

// lookupErr maps sql.ErrNoRows to models.ErrNotFound.
func lookupErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return unavailable(op, err)
}

// affectedOne returns ErrNotFound when a write touched no row.
func affectedOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
