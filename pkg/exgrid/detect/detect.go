package detect

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// SampleSize is the number of non-empty values inspected per column.
const SampleSize = 10

// Classification thresholds, as fractions of the valid sample count.
const (
	DateThreshold     = 0.7
	NumberThreshold   = 0.7
	SuppressThreshold = 0.6
)

// longTokenLen is the token length from which a value counts as a code.
const longTokenLen = 8

var (
	alphaPattern = regexp.MustCompile(`^\p{L}[\p{L}\s.,'&/()-]*$`)
	codePattern  = regexp.MustCompile(`\p{L}{2,}\d{3,}|\d{2,}\p{L}{3,}`)
)

type valueKind int

const (
	kindDate valueKind = iota
	kindNumber
	kindAlpha
	kindCode
	kindSimple
)

func classifyValue(s string) valueKind {
	if LooksLikeDate(s) {
		return kindDate
	}
	if _, ok := ParseNumber(s); ok {
		return kindNumber
	}
	if alphaPattern.MatchString(s) {
		return kindAlpha
	}
	if codePattern.MatchString(s) {
		return kindCode
	}
	for _, tok := range strings.Fields(s) {
		if utf8.RuneCountInString(tok) >= longTokenLen {
			return kindCode
		}
	}
	return kindSimple
}

// Classify infers the semantic type of column key from sample.
// A key containing "date" wins over the sampled content. Only the first
// SampleSize non-empty values (styled cells unwrapped) are inspected.
func Classify(key string, sample []models.Cell) models.ColumnType {
	if KeyLooksLikeDate(key) {
		return models.TypeDate
	}
	var valid, dates, numbers, suppressed int
	for _, c := range sample {
		if valid == SampleSize {
			break
		}
		s := c.Text()
		if s == "" {
			continue
		}
		valid++
		switch classifyValue(s) {
		case kindDate:
			dates++
		case kindNumber:
			numbers++
		case kindAlpha, kindCode:
			suppressed++
		}
	}
	if valid == 0 {
		return models.TypeNone
	}
	n := float64(valid)
	switch {
	case float64(dates)/n >= DateThreshold:
		return models.TypeDate
	case float64(numbers)/n >= NumberThreshold:
		return models.TypeNumber
	case float64(suppressed)/n >= SuppressThreshold:
		return models.TypeNone
	default:
		return models.TypeText
	}
}

// Sample collects up to SampleSize non-empty cells of key, in row order.
func Sample(rows []models.Row, key string) []models.Cell {
	out := make([]models.Cell, 0, SampleSize)
	for _, r := range rows {
		c, ok := r.Get(key)
		if !ok || c.Text() == "" {
			continue
		}
		out = append(out, c)
		if len(out) == SampleSize {
			break
		}
	}
	return out
}

// Columns classifies every data column found in rows.
func Columns(rows []models.Row) map[string]models.ColumnType {
	out := make(map[string]models.ColumnType)
	for _, key := range models.DataColumns(rows) {
		out[key] = Classify(key, Sample(rows, key))
	}
	return out
}
