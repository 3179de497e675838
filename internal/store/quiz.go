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

// QuizStore manages quizzes, their questions, answers and result bands.
type QuizStore struct {
	db *sqlx.DB
}

// NewQuizStore returns a new QuizStore.
func NewQuizStore(db *sqlx.DB) *QuizStore {
	return &QuizStore{db: db}
}

var quizFields = []string{
	"id", "title", "slug", "rating", "views", "time_for_read", "category_id", "image", "created_at", "updated_at",
}

// ListInCategory returns the quizzes of a category in creation order,
// without questions or results.
func (s *QuizStore) ListInCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Quiz, error) {
	items := []models.Quiz{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT `+columns("", quizFields)+`
		FROM quizzes
		WHERE category_id = $1
		ORDER BY created_at, id
	`, categoryID)
	if err != nil {
		return nil, unavailable("list quizzes in category", err)
	}
	return items, nil
}

// FindBySlug retrieves a quiz with its category, without questions or results.
func (s *QuizStore) FindBySlug(ctx context.Context, slug string) (*models.Quiz, error) {
	var q models.Quiz
	err := s.db.GetContext(ctx, &q, `
		SELECT `+columns("q", quizFields)+`,
		       c.slug AS category_slug, c.title AS category_title, c.type AS category_type
		FROM quizzes q
		LEFT JOIN categories c ON c.id = q.category_id
		WHERE q.slug = $1
	`, slug)
	if err != nil {
		return nil, lookupErr("find quiz by slug", err)
	}
	return &q, nil
}

// questionAnswerRow is one row of the question/answer outer join.
type questionAnswerRow struct {
	ID            uuid.UUID  `db:"id"`
	QuizID        uuid.UUID  `db:"quiz_id"`
	Number        int        `db:"number"`
	Content       string     `db:"content"`
	AnswerID      *uuid.UUID `db:"answer_id"`
	AnswerContent *string    `db:"answer_content"`
	AnswerCorrect *bool      `db:"answer_correct"`
}

// Questions returns a quiz's questions ordered by number, each with its
// answers, using a single query.
func (s *QuizStore) Questions(ctx context.Context, quizID uuid.UUID) ([]models.Question, error) {
	var rows []questionAnswerRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT q.id, q.quiz_id, q.number, q.content,
		       a.id AS answer_id, a.content AS answer_content, a.correct AS answer_correct
		FROM questions q
		LEFT JOIN answers a ON a.question_id = q.id
		WHERE q.quiz_id = $1
		ORDER BY q.number, a.id
	`, quizID)
	if err != nil {
		return nil, unavailable("list quiz questions", err)
	}

	questions := []models.Question{}
	for _, r := range rows {
		if n := len(questions); n == 0 || questions[n-1].ID != r.ID {
			questions = append(questions, models.Question{
				ID:      r.ID,
				QuizID:  r.QuizID,
				Number:  r.Number,
				Content: r.Content,
				Answers: []models.Answer{},
			})
		}
		if r.AnswerID == nil {
			continue
		}
		q := &questions[len(questions)-1]
		q.Answers = append(q.Answers, models.Answer{
			ID:         *r.AnswerID,
			QuestionID: r.ID,
			Content:    deref(r.AnswerContent),
			Correct:    r.AnswerCorrect != nil && *r.AnswerCorrect,
		})
	}
	return questions, nil
}

// Results returns a quiz's score bands ordered by their lower bound.
func (s *QuizStore) Results(ctx context.Context, quizID uuid.UUID) ([]models.QuizResult, error) {
	items := []models.QuizResult{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT id, quiz_id, min_value, max_value, content
		FROM quiz_results
		WHERE quiz_id = $1
		ORDER BY min_value, id
	`, quizID)
	if err != nil {
		return nil, unavailable("list quiz results", err)
	}
	return items, nil
}

// IncrementViews adds one to a quiz's view counter with the same
// read-then-write semantics as ArticleStore.IncrementViews.
func (s *QuizStore) IncrementViews(ctx context.Context, id uuid.UUID) (int, error) {
	return incrementViews(ctx, s.db, "quizzes", id)
}

// Popular returns up to limit quizzes filed under QUIZ categories, ordered
// by ranking. Quizzes in other categories have no reachable page.
func (s *QuizStore) Popular(ctx context.Context, ranking Ranking, limit int) ([]models.Popular, error) {
	items := []models.Popular{}
	if limit <= 0 {
		return items, nil
	}
	err := s.db.SelectContext(ctx, &items, `
		SELECT q.id, q.title, q.slug, q.views, q.rating, q.image,
		       c.slug AS category_slug, c.type AS category_type
		FROM quizzes q
		JOIN categories c ON c.id = q.category_id
		WHERE c.type = $1
		ORDER BY `+ranking.orderBy("q")+`
		LIMIT $2
	`, models.CategoryTypeQuiz, limit)
	if err != nil {
		return nil, unavailable("popular quizzes", err)
	}
	return items, nil
}

// Create inserts a quiz together with its questions, answers and result
// bands in one transaction, and returns the stored quiz with ids set.
func (s *QuizStore) Create(ctx context.Context, q *models.Quiz) (*models.Quiz, error) {
	if q.Slug == "" {
		q.Slug = slug.Generate(q.Title)
	}
	if err := validate.Struct(q); err != nil {
		return nil, err
	}
	numbers := make(map[int]bool, len(q.Questions))
	for _, question := range q.Questions {
		if numbers[question.Number] {
			return nil, fmt.Errorf("quiz %q: question number %d is repeated: %w", q.Slug, question.Number, models.ErrInvalid)
		}
		numbers[question.Number] = true
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, unavailable("create quiz: begin tx", err)
	}
	defer tx.Rollback()

	out := *q
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO quizzes (title, slug, rating, views, time_for_read, category_id, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, q.Title, q.Slug, q.Rating, q.Views, q.MinutesToRead, q.CategoryID, q.Image,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, unavailable("create quiz", err)
	}

	out.Questions = make([]models.Question, len(q.Questions))
	for i, question := range q.Questions {
		question.QuizID = out.ID
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO questions (quiz_id, number, content) VALUES ($1, $2, $3) RETURNING id`,
			out.ID, question.Number, question.Content,
		).Scan(&question.ID)
		if err != nil {
			return nil, unavailable(fmt.Sprintf("create quiz question %d", question.Number), err)
		}

		answers := make([]models.Answer, len(question.Answers))
		for j, a := range question.Answers {
			a.QuestionID = question.ID
			err := tx.QueryRowxContext(ctx,
				`INSERT INTO answers (question_id, content, correct) VALUES ($1, $2, $3) RETURNING id`,
				question.ID, a.Content, a.Correct,
			).Scan(&a.ID)
			if err != nil {
				return nil, unavailable("create quiz answer", err)
			}
			answers[j] = a
		}
		question.Answers = answers
		out.Questions[i] = question
	}

	out.Results = make([]models.QuizResult, len(q.Results))
	for i, r := range q.Results {
		r.QuizID = out.ID
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO quiz_results (quiz_id, min_value, max_value, content) VALUES ($1, $2, $3, $4) RETURNING id`,
			out.ID, r.MinValue, r.MaxValue, r.Content,
		).Scan(&r.ID)
		if err != nil {
			return nil, unavailable("create quiz result", err)
		}
		out.Results[i] = r
	}

	if err := tx.Commit(); err != nil {
		return nil, unavailable("create quiz: commit", err)
	}
	return &out, nil
}

// Delete removes a quiz. Its questions, answers and result bands go with it
// (ON DELETE CASCADE).
func (s *QuizStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return unavailable("delete quiz", err)
	}
	return affectedOne("delete quiz", res)
}
