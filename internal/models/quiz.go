// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Quiz is a test made of numbered questions. Deleting a quiz cascades to its
// questions, their answers and its result bands.
type Quiz struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Title         string     `json:"title" db:"title" validate:"required,max=300"`
	Slug          string     `json:"slug" db:"slug" validate:"required,slug,max=300"`
	Rating        int        `json:"rating" db:"rating" validate:"min=0,max=5"`
	Views         int        `json:"views" db:"views" validate:"min=0"`
	MinutesToRead int        `json:"time_for_read" db:"time_for_read" validate:"min=1"`
	CategoryID    *uuid.UUID `json:"category_id" db:"category_id"`
	Image         *string    `json:"image,omitempty" db:"image"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	// Populated by QuizStore.FindBySlug.
	CategorySlug  *string       `json:"category_slug,omitempty" db:"category_slug"`
	CategoryTitle *string       `json:"category_title,omitempty" db:"category_title"`
	CategoryType  *CategoryType `json:"-" db:"category_type"`

	Questions []Question   `json:"questions,omitempty" db:"-" validate:"dive"`
	Results   []QuizResult `json:"results,omitempty" db:"-" validate:"dive"`
}

// Question is one numbered question of a quiz. Number orders questions
// within the quiz and is unique there.
type Question struct {
	ID      uuid.UUID `json:"id" db:"id"`
	QuizID  uuid.UUID `json:"quiz_id" db:"quiz_id"`
	Number  int       `json:"number" db:"number" validate:"min=1"`
	Content string    `json:"content" db:"content" validate:"required"`
	Answers []Answer  `json:"answers" db:"-" validate:"dive"`
}

// Answer is a possible answer to a question.
type Answer struct {
	ID         uuid.UUID `json:"id" db:"id"`
	QuestionID uuid.UUID `json:"question_id" db:"question_id"`
	Content    string    `json:"content" db:"content" validate:"required"`
	Correct    bool      `json:"correct" db:"correct"`
}

// QuizResult is a score band [MinValue, MaxValue] with the text shown to a
// participant whose score falls inside it. Bands are not checked for overlap
// or coverage.
type QuizResult struct {
	ID       uuid.UUID `json:"id" db:"id"`
	QuizID   uuid.UUID `json:"quiz_id" db:"quiz_id"`
	MinValue int       `json:"min_value" db:"min_value"`
	MaxValue int       `json:"max_value" db:"max_value" validate:"gtefield=MinValue"`
	Content  string    `json:"content" db:"content"`
}

// Contains reports whether score falls inside the band, bounds included.
func (r QuizResult) Contains(score int) bool {
	return r.MinValue <= score && score <= r.MaxValue
}

// ResultFor returns the first band, by ascending MinValue, that contains
// score. ok is false when no band matches.
func (q *Quiz) ResultFor(score int) (QuizResult, bool) {
	bands := make([]QuizResult, len(q.Results))
	copy(bands, q.Results)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].MinValue < bands[j].MinValue })
	for _, b := range bands {
		if b.Contains(score) {
			return b, true
		}
	}
	return QuizResult{}, false
}

// MaxScore is the number of questions that have at least one correct answer.
func (q *Quiz) MaxScore() int {
	n := 0
	for _, question := range q.Questions {
		for _, a := range question.Answers {
			if a.Correct {
				n++
				break
			}
		}
	}
	return n
}
