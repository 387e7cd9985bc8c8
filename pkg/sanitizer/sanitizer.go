package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// TrimAndNormalize trims the string and collapses internal whitespace runs
// to single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName is the normal form for participant first and last names.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail is the normal form for emails: trimmed and lower-cased.
// Emails are compared case-insensitively everywhere, so they are stored
// lower-cased.
func NormalizeEmail(email string) string {
	p := Pipeline{
		strings.TrimSpace,
		strings.ToLower,
	}
	return p.Apply(email)
}

// NormalizeNotes trims booking notes but preserves internal formatting.
func NormalizeNotes(notes string) string {
	return strings.TrimSpace(notes)
}

// NormalizeSessionType is the normal form for the free-text session
// classification tag.
func NormalizeSessionType(sessionType string) string {
	return TrimAndNormalize(sessionType)
}
