// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation and validation.
// Titles on the site are mostly Russian, so Cyrillic is transliterated to
// Latin before non-slug characters are dropped.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen is the longest slug the schema accepts.
const MaxLen = 300

var (
	// nonSlug matches anything that isn't a lowercase letter, digit, hyphen, or whitespace.
	nonSlug = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace runs become a single hyphen.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// valid is the slug alphabet accepted for stored slugs.
	valid = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// cyrillic maps lowercase Russian letters to their Latin transliteration.
var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "i", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "iu", 'я': "ia",
}

// stripMarks removes combining marks after canonical decomposition, turning
// "é" into "e".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Generate creates a URL-friendly slug from the given string.
// Example: "Present Simple: правила" → "present-simple-pravila"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = transliterate(result)
	if stripped, _, err := transform.String(stripMarks, result); err == nil {
		result = stripped
	}
	result = nonSlug.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > MaxLen {
		result = strings.Trim(result[:MaxLen], "-")
	}
	return result
}

// Valid reports whether s is a non-empty slug made of ASCII letters, digits,
// hyphens and underscores.
func Valid(s string) bool {
	return len(s) <= MaxLen && valid.MatchString(s)
}

func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if lat, ok := cyrillic[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
