package exgrid

import (
	"sort"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/layout"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// DeriveColumns builds fresh column specs for rows.
//
// Column order is first-seen key order, narrowed and reordered by the
// viewport's responsive list when one is configured. Frozen columns move to
// the front. A "treat as text" preference overrides the detected type.
// Alignment is right for numbers unless a left or right override applies.
// Hidden columns are kept with Hidden set.
func DeriveColumns(rows []models.Row, types map[string]models.ColumnType, rules models.FormattingRules,
	prefs models.ColumnPrefs, vp models.Viewport, engine *layout.Engine) []models.ColumnSpec {
	keys := viewportKeys(models.DataColumns(rows), rules.Columns(vp))

	specs := make([]models.ColumnSpec, 0, len(keys))
	for _, key := range keys {
		typ, ok := types[key]
		if !ok {
			typ = models.TypeNone
		}
		if prefs.IsText(key) {
			typ = models.TypeText
		}
		align := models.AlignLeft
		if typ == models.TypeNumber {
			align = models.AlignRight
		}
		switch {
		case rules.IsLeftAligned(key):
			align = models.AlignLeft
		case rules.IsRightAligned(key):
			align = models.AlignRight
		}
		specs = append(specs, models.ColumnSpec{
			Key:    key,
			Label:  rules.Label(key),
			Type:   typ,
			Align:  align,
			Frozen: prefs.IsFrozen(key),
			Hidden: rules.IsHidden(key),
		})
	}
	sort.SliceStable(specs, func(i, j int) bool {
		return specs[i].Frozen && !specs[j].Frozen
	})

	if engine == nil {
		engine = layout.NewEngine(nil)
	}
	return engine.Columns(specs, rows, rules.ColumnWidths)
}

// viewportKeys applies a responsive column list: listed keys that exist, in
// list order. An empty list keeps every key.
func viewportKeys(keys, list []string) []string {
	if len(list) == 0 {
		return keys
	}
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, k := range list {
		if present[k] && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// Visible returns the non-hidden specs.
func Visible(specs []models.ColumnSpec) []models.ColumnSpec {
	out := make([]models.ColumnSpec, 0, len(specs))
	for _, s := range specs {
		if !s.Hidden {
			out = append(out, s)
		}
	}
	return out
}
