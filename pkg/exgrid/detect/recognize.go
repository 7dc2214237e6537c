// Package detect infers column types from value samples and provides the
// date and number recognizers shared by the rest of the pipeline.
package detect

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DateLayouts are the strict date patterns, tried in order:
// YYYYMMDD, DD-MM-YYYY, MM/DD/YYYY, YYYY-MM-DD.
var DateLayouts = []string{"20060102", "02-01-2006", "01/02/2006", "2006-01-02"}

// CurrencyGlyphs are stripped before numeric parsing.
const CurrencyGlyphs = "₹$€£¥"

var numericPattern = regexp.MustCompile(`^[-+]?[₹$€£¥]?[-+]?(\d+|\d{1,3}(,\d{2,3})+)?(\.\d+)?$`)

// ParseDate parses s against DateLayouts. The result is a pure calendar date in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if len(s) != len(layout) {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LooksLikeDate reports whether s parses under DateLayouts.
func LooksLikeDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// KeyLooksLikeDate reports whether a column key names a date.
func KeyLooksLikeDate(key string) bool {
	return strings.Contains(strings.ToLower(key), "date")
}

// CleanNumber strips thousands separators, whitespace and currency glyphs.
func CleanNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || strings.ContainsRune(CurrencyGlyphs, r) {
			return -1
		}
		return r
	}, s)
}

// ParseNumber parses s as a finite number after cleaning. The whitespace
// stripped original must also match the numeric-with-currency pattern, so
// "12A" or "1-2" are rejected.
func ParseNumber(s string) (float64, bool) {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if stripped == "" || !numericPattern.MatchString(stripped) {
		return 0, false
	}
	f, err := strconv.ParseFloat(CleanNumber(stripped), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SameDay reports whether a and b fall on the same calendar day, ignoring zones.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
