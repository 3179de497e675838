package knowledge

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"engsite/internal/models"
	"engsite/internal/plural"
)

// QuizAnswer is an answer as shown to a participant.
type QuizAnswer struct {
	Content string `json:"content"`
	Correct bool   `json:"correct"`
}

// QuizQuestion is a question with its answers in display order.
type QuizQuestion struct {
	Number  int          `json:"number"`
	Content string       `json:"content"`
	Answers []QuizAnswer `json:"answers"`
}

// QuizPage is the detail page of a quiz.
type QuizPage struct {
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	ImageURL    string              `json:"img_url"`
	ReadingTime string              `json:"time_for_read"`
	Views       int                 `json:"views"`
	Rating      int                 `json:"rating"`
	MaxScore    int                 `json:"max_score"`
	Questions   []QuizQuestion      `json:"questions"`
	Results     []models.QuizResult `json:"results"`
	Breadcrumbs []Crumb             `json:"breadcrumbs"`
}

// Quiz returns a quiz with its questions ordered by number and each
// question's answers shuffled, then records a view.
func (s *Service) Quiz(ctx context.Context, categorySlug, slug string) (_ *QuizPage, err error) {
	defer s.metrics.ObservePage("quiz", time.Now(), &err)

	q, err := s.quizzes.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if q.CategoryType == nil || *q.CategoryType != models.CategoryTypeQuiz ||
		q.CategorySlug == nil || *q.CategorySlug != categorySlug {
		return nil, fmt.Errorf("quiz %q in %s/%s: %w", slug, Quizzes.Slug, categorySlug, models.ErrNotFound)
	}

	if q.Questions, err = s.quizzes.Questions(ctx, q.ID); err != nil {
		return nil, err
	}
	if q.Results, err = s.quizzes.Results(ctx, q.ID); err != nil {
		return nil, err
	}

	categoryTitle := categorySlug
	if q.CategoryTitle != nil {
		categoryTitle = *q.CategoryTitle
	}

	page := QuizPage{
		Title:       q.Title,
		Slug:        q.Slug,
		ImageURL:    s.imageURL(q.Image),
		ReadingTime: plural.Minutes(q.MinutesToRead),
		Rating:      q.Rating,
		MaxScore:    q.MaxScore(),
		Questions:   make([]QuizQuestion, 0, len(q.Questions)),
		Results:     q.Results,
		Breadcrumbs: crumbs(
			Quizzes.crumb(),
			Crumb{Label: categoryTitle, URL: Quizzes.CategoryURL(categorySlug)},
			Crumb{Label: q.Title, URL: Quizzes.ItemURL(categorySlug, q.Slug)},
		),
	}
	for _, question := range q.Questions {
		answers := make([]QuizAnswer, len(question.Answers))
		for i, a := range question.Answers {
			answers[i] = QuizAnswer{Content: a.Content, Correct: a.Correct}
		}
		s.shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })
		page.Questions = append(page.Questions, QuizQuestion{
			Number:  question.Number,
			Content: question.Content,
			Answers: answers,
		})
	}

	if page.Views, err = s.quizzes.IncrementViews(ctx, q.ID); err != nil {
		return nil, err
	}
	s.metrics.ViewRecorded("quiz")

	s.logger.Debug("quiz served", zap.String("slug", slug), zap.Int("views", page.Views))
	return &page, nil
}
