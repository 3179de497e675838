// Package plural picks the Russian noun form that agrees with a number.
package plural

import "fmt"

// Forms holds a noun in its three agreement forms: one (1, 21, 101),
// few (2-4, 22-24) and many (0, 5-20, 25-30, 111).
type Forms struct {
	One, Few, Many string
}

var (
	minuteForms = Forms{One: "минута", Few: "минуты", Many: "минут"}
	lessonForms = Forms{One: "урок", Few: "урока", Many: "уроков"}
)

// Pick returns the form of f that agrees with n.
func (f Forms) Pick(n int) string {
	if n < 0 {
		n = -n
	}
	if tens := n % 100; tens >= 11 && tens <= 14 {
		return f.Many
	}
	switch ones := n % 10; {
	case ones == 1:
		return f.One
	case ones >= 2 && ones <= 4:
		return f.Few
	default:
		return f.Many
	}
}

// Format renders n followed by the agreeing form, e.g. "3 урока".
func (f Forms) Format(n int) string {
	return fmt.Sprintf("%d %s", n, f.Pick(n))
}

// Minutes renders a reading time, e.g. "5 минут".
func Minutes(n int) string { return minuteForms.Format(n) }

// Lessons renders a lesson count, e.g. "21 урок".
func Lessons(n int) string { return lessonForms.Format(n) }
