package knowledge

import (
	"fmt"

	"engsite/internal/models"
)

// HomeLabel is the label of the first breadcrumb of every page.
const HomeLabel = "На главную!"

// Section is a public area of the site backed by one category type.
type Section struct {
	Slug  string              `json:"slug"`
	Label string              `json:"label"`
	Type  models.CategoryType `json:"type"`
}

var (
	Topics     = Section{Slug: "topics", Label: "Топики", Type: models.CategoryTypeTopic}
	Phrasebook = Section{Slug: "phrasebook", Label: "Разговорник", Type: models.CategoryTypePhrasebook}
	Articles   = Section{Slug: "articles", Label: "Статьи", Type: models.CategoryTypeArticle}
	Quizzes    = Section{Slug: "quizzes", Label: "Тесты", Type: models.CategoryTypeQuiz}
	Handbook   = Section{Slug: "handbook", Label: "Справочник", Type: models.CategoryTypeHandbook}
)

// Sections lists every section in navigation order.
var Sections = []Section{Topics, Phrasebook, Articles, Quizzes, Handbook}

// SectionBySlug returns the section served under /{slug}/.
func SectionBySlug(slug string) (Section, error) {
	for _, s := range Sections {
		if s.Slug == slug {
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("section %q: %w", slug, models.ErrNotFound)
}

// SectionByType returns the section whose categories have type t.
func SectionByType(t models.CategoryType) (Section, bool) {
	for _, s := range Sections {
		if s.Type == t {
			return s, true
		}
	}
	return Section{}, false
}

// URL is the section's category index.
func (s Section) URL() string {
	return "/" + s.Slug + "/"
}

// CategoryURL is the listing page of one category in the section.
func (s Section) CategoryURL(categorySlug string) string {
	return "/" + s.Slug + "/" + categorySlug + "/"
}

// ItemURL is the detail page of an article or quiz. Handbook lessons are
// addressed by their own slug only.
func (s Section) ItemURL(categorySlug, slug string) string {
	if s.Type == models.CategoryTypeHandbook {
		return "/" + s.Slug + "/" + slug + "/"
	}
	return "/" + s.Slug + "/" + categorySlug + "/" + slug
}

// Crumb is one step of a breadcrumb trail.
type Crumb struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// crumbs starts a trail at the homepage.
func crumbs(rest ...Crumb) []Crumb {
	return append([]Crumb{{Label: HomeLabel, URL: "/"}}, rest...)
}

func (s Section) crumb() Crumb {
	return Crumb{Label: s.Label, URL: s.URL()}
}
