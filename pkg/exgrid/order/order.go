// Package order sorts rows by a multi-key sort spec.
package order

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/detect"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// Option configures Sort.
type Option func(*config)

type config struct {
	lang language.Tag
}

// WithLanguage sets the collation language for text comparison.
// The default is English.
func WithLanguage(tag language.Tag) Option {
	return func(c *config) { c.lang = tag }
}

// Sort returns rows ordered by spec. The input slice is not modified and rows
// that tie on every key keep their relative order. Keys naming internal
// columns are ignored.
func Sort(rows []models.Row, spec models.SortSpec, opts ...Option) []models.Row {
	out := make([]models.Row, len(rows))
	copy(out, rows)

	keys := make(models.SortSpec, 0, len(spec))
	for _, k := range spec {
		if k.Column == "" || models.IsInternal(k.Column) {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 || len(out) < 2 {
		return out
	}

	cfg := config{lang: language.English}
	for _, opt := range opts {
		opt(&cfg)
	}
	cmp := NewComparator(cfg.lang)

	slices.SortStableFunc(out, func(a, b models.Row) int {
		for _, k := range keys {
			c := cmp.Compare(a.Cell(k.Column), b.Cell(k.Column))
			if c == 0 {
				continue
			}
			if k.Direction == models.Desc {
				return -c
			}
			return c
		}
		return 0
	})
	return out
}

// Comparator orders two cells: numerically when both parse as finite
// numbers, otherwise by locale collation of their text.
// A Comparator is not safe for concurrent use.
type Comparator struct {
	col *collate.Collator
}

// NewComparator returns a comparator collating text in lang.
func NewComparator(lang language.Tag) *Comparator {
	return &Comparator{col: collate.New(lang)}
}

// Compare returns -1, 0 or +1.
func (c *Comparator) Compare(a, b models.Cell) int {
	as, bs := a.Text(), b.Text()
	if x, ok := detect.ParseNumber(as); ok {
		if y, ok := detect.ParseNumber(bs); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	return c.col.CompareString(as, bs)
}
