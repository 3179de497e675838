// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"engsite/internal/models"
)

type seedCategory struct {
	id     uuid.UUID
	title  string
	slug   string
	typ    models.CategoryType
	parent *uuid.UUID
}

type seedArticle struct {
	id       uuid.UUID
	title    string
	slug     string
	content  string
	minutes  int
	rating   int
	category uuid.UUID
	parent   *uuid.UUID
}

// Seed populates the database with development content: one entry per
// section, a two-level handbook with a lesson chain, and a short quiz.
// It does nothing when any category already exists.
func Seed(db *sqlx.DB, logger *zap.Logger) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM categories"); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		logger.Info("database already seeded, skipping")
		return nil
	}

	grammar, tenses := uuid.New(), uuid.New()
	everyday, travel, culture, tests := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	categories := []seedCategory{
		{id: grammar, title: "Грамматика", slug: "grammar", typ: models.CategoryTypeHandbook},
		{id: tenses, title: "Времена", slug: "tenses", typ: models.CategoryTypeHandbook, parent: &grammar},
		{id: everyday, title: "Повседневная жизнь", slug: "everyday-life", typ: models.CategoryTypeTopic},
		{id: travel, title: "Путешествия", slug: "travel", typ: models.CategoryTypePhrasebook},
		{id: culture, title: "Культура", slug: "culture", typ: models.CategoryTypeArticle},
		{id: tests, title: "Грамматические тесты", slug: "grammar-tests", typ: models.CategoryTypeQuiz},
	}

	presentSimple := uuid.New()
	articles := []seedArticle{
		{id: presentSimple, title: "Present Simple", slug: "present-simple", content: "<p>I work.</p>", minutes: 5, rating: 5, category: tenses},
		{id: uuid.New(), title: "Past Simple", slug: "past-simple", content: "<p>I worked.</p>", minutes: 6, rating: 4, category: tenses, parent: &presentSimple},
		{id: uuid.New(), title: "My Day", slug: "my-day", content: "<p>I get up at seven.</p>", minutes: 3, rating: 4, category: everyday},
		{id: uuid.New(), title: "At the Airport", slug: "at-the-airport", content: "<p>Where is the gate?</p>", minutes: 2, rating: 3, category: travel},
		{id: uuid.New(), title: "British Tea", slug: "british-tea", content: "<p>Milk first?</p>", minutes: 4, rating: 5, category: culture},
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, c := range categories {
		if _, err := tx.Exec(
			`INSERT INTO categories (id, title, slug, type, parent_id) VALUES ($1, $2, $3, $4, $5)`,
			c.id, c.title, c.slug, c.typ, c.parent,
		); err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
	}

	for _, a := range articles {
		if _, err := tx.Exec(
			`INSERT INTO articles (id, title, slug, content, time_for_read, rating, category_id, parent_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			a.id, a.title, a.slug, a.content, a.minutes, a.rating, a.category, a.parent,
		); err != nil {
			return fmt.Errorf("seed insert article %s: %w", a.slug, err)
		}
	}

	quizID := uuid.New()
	if _, err := tx.Exec(
		`INSERT INTO quizzes (id, title, slug, time_for_read, rating, category_id) VALUES ($1, $2, $3, $4, $5, $6)`,
		quizID, "Present or Past?", "present-or-past", 2, 4, tests,
	); err != nil {
		return fmt.Errorf("seed insert quiz: %w", err)
	}

	questions := []struct {
		content string
		answers map[string]bool
	}{
		{"Yesterday I ___ to school.", map[string]bool{"went": true, "go": false, "goes": false}},
		{"She ___ coffee every morning.", map[string]bool{"drinks": true, "drank": false, "drink": false}},
	}
	for i, q := range questions {
		questionID := uuid.New()
		if _, err := tx.Exec(
			`INSERT INTO questions (id, quiz_id, number, content) VALUES ($1, $2, $3, $4)`,
			questionID, quizID, i+1, q.content,
		); err != nil {
			return fmt.Errorf("seed insert question %d: %w", i+1, err)
		}
		for content, correct := range q.answers {
			if _, err := tx.Exec(
				`INSERT INTO answers (question_id, content, correct) VALUES ($1, $2, $3)`,
				questionID, content, correct,
			); err != nil {
				return fmt.Errorf("seed insert answer: %w", err)
			}
		}
	}

	results := []models.QuizResult{
		{MinValue: 0, MaxValue: 1, Content: "Стоит повторить времена."},
		{MinValue: 2, MaxValue: 2, Content: "Отлично!"},
	}
	for _, r := range results {
		if _, err := tx.Exec(
			`INSERT INTO quiz_results (quiz_id, min_value, max_value, content) VALUES ($1, $2, $3, $4)`,
			quizID, r.MinValue, r.MaxValue, r.Content,
		); err != nil {
			return fmt.Errorf("seed insert quiz result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	logger.Info("database seeded with development content",
		zap.Int("categories", len(categories)),
		zap.Int("articles", len(articles)),
	)
	return nil
}
