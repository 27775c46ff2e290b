// Package normalize provides canonical naming for genres, subgenres, and venues.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalAliases maps lower-cased spelling variants to their canonical
// display title. Lookups happen after trimming and lower-casing the input,
// so "D&B", " dnb " and "Drum N Bass" all land on "Drum & Bass".
var CanonicalAliases = map[string]string{
	// Drum & Bass variations
	"drum n bass":   "Drum & Bass",
	"dnb":           "Drum & Bass",
	"d&b":           "Drum & Bass",
	"drum and bass": "Drum & Bass",
	"d & b":         "Drum & Bass",
	"d n b":         "Drum & Bass",

	// Dubstep variations
	"dubstep": "Dubstep",
	"140":     "Dubstep",
}

//nolint:gochecknoglobals // shared caser, safe for concurrent use
var titleCaser = cases.Title(language.English)

// Canonical maps a raw genre or subgenre name to its canonical display
// title. The alias table wins; anything unknown is trimmed and title-cased.
// Returns empty string for blank input.
func Canonical(raw string) string {
	s := strings.TrimSpace(sanitizeString(raw))
	if s == "" {
		return ""
	}
	if canonical, ok := CanonicalAliases[strings.ToLower(s)]; ok {
		return canonical
	}
	return titleCaser.String(s)
}

// TitleCase trims and title-cases a raw name without alias resolution.
// Used for venue names, which carry no alias table.
func TitleCase(raw string) string {
	s := strings.TrimSpace(sanitizeString(raw))
	if s == "" {
		return ""
	}
	return titleCaser.String(s)
}

// Key returns the case-insensitive comparison key for a name. Two names
// with equal keys are the same entity.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// sanitizeString removes null bytes, which can cause issues in databases
// and JSON parsing.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
