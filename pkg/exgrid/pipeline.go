package exgrid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/detect"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/export"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/filter"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/format"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/layout"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/order"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/summary"
)

// Input holds everything a view is derived from.
type Input struct {
	Rows     []models.Row
	Rules    models.FormattingRules
	Filters  filter.Set
	Sort     models.SortSpec
	Viewport models.Viewport
	Prefs    models.ColumnPrefs
}

// View is a derived grid view. Its slices and maps may be shared with the
// pipeline's memo and must be treated as read-only.
type View struct {
	// Columns are all derived columns, hidden ones included.
	Columns []models.ColumnSpec
	// Types are the detected column types.
	Types map[string]models.ColumnType
	// Rows are the formatted, filtered and sorted rows.
	Rows []models.Row
	// Totals is computed over Rows; nil when no total columns are configured.
	Totals *models.SummaryRow
	// Total is the row count before filtering.
	Total int
	// Rules are the rules the view was built with.
	Rules models.FormattingRules
}

// Visible returns the columns shown in the grid and exports.
func (v *View) Visible() []models.ColumnSpec { return Visible(v.Columns) }

// Table builds the export input for the view.
func (v *View) Table(title string, meta export.Meta) *export.Table {
	t := export.NewTable(title, v.Columns, v.Rows, v.Totals, v.Rules)
	t.Meta = meta
	return t
}

type slot struct {
	key   string
	value any
}

// Pipeline runs detect, format, filter, sort, columns and summary stages,
// recomputing a stage only when the digest of its inputs changes.
// It is safe for concurrent use.
type Pipeline struct {
	opts      Options
	log       zerolog.Logger
	announcer Announcer
	stats     Stats
	engine    *layout.Engine

	mu        sync.Mutex
	memo      map[string]slot
	last      *View
	announced string
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		opts:      opts,
		log:       opts.Logger,
		announcer: opts.Announcer,
		stats:     opts.Stats,
		engine:    layout.NewEngine(opts.Metrics),
		memo:      make(map[string]slot),
	}
	if p.announcer == nil {
		p.announcer = nopAnnouncer{}
	}
	if p.stats == nil {
		p.stats = nopStats{}
	}
	return p
}

// Last returns the last successfully derived view, or nil.
func (p *Pipeline) Last() *View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Run derives the view for in. On failure the last good view is returned
// together with the error.
func (p *Pipeline) Run(in Input) (*View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	view, err := p.run(in)
	if err != nil {
		p.log.Error().Err(err).Msg("view derivation failed; keeping last view")
		p.stats.Add("pipeline.errors", 1)
		return p.last, err
	}
	p.last = view
	p.announce(view, in.Sort)
	return view, nil
}

func (p *Pipeline) run(in Input) (*View, error) {
	vp, err := ParseViewport(string(in.Viewport))
	if err != nil {
		return nil, err
	}

	d, err := digests(in)
	if err != nil {
		return nil, NewStageError("digest", err)
	}

	types, err := stage(p, "detect", d.rows, func() map[string]models.ColumnType {
		return detect.Columns(in.Rows)
	})
	if err != nil {
		return nil, err
	}
	formatted, err := stage(p, "format", d.join(d.rows, d.rules), func() []models.Row {
		return format.New(in.Rules).Rows(in.Rows)
	})
	if err != nil {
		return nil, err
	}
	filtered, err := stage(p, "filter", d.join(d.rows, d.rules, d.filters, d.prefs), func() []models.Row {
		e := filter.NewEngine(filterTypes(types, in.Prefs))
		e.LegacyDateCheck = p.opts.ShouldUseLegacyDateCheck()
		return e.Apply(formatted, in.Filters)
	})
	if err != nil {
		return nil, err
	}
	sorted, err := stage(p, "sort", d.join(d.rows, d.rules, d.filters, d.prefs, d.sort), func() []models.Row {
		return order.Sort(filtered, in.Sort, order.WithLanguage(p.opts.Language()))
	})
	if err != nil {
		return nil, err
	}
	columns, err := stage(p, "columns", d.join(d.rows, d.rules, d.prefs, string(vp)), func() []models.ColumnSpec {
		return DeriveColumns(formatted, types, in.Rules, in.Prefs, vp, p.engine)
	})
	if err != nil {
		return nil, err
	}
	totals, err := stage(p, "summary", d.join(d.rows, d.rules, d.filters, d.prefs), func() *models.SummaryRow {
		if len(in.Rules.TotalColumns) == 0 {
			return nil
		}
		return summary.Aggregate(filtered, in.Rules.TotalColumns, format.New(in.Rules))
	})
	if err != nil {
		return nil, err
	}

	return &View{
		Columns: columns,
		Types:   types,
		Rows:    sorted,
		Totals:  totals,
		Total:   len(in.Rows),
		Rules:   in.Rules,
	}, nil
}

// filterTypes applies treat-as-text preferences to the detected types.
func filterTypes(types map[string]models.ColumnType, prefs models.ColumnPrefs) map[string]models.ColumnType {
	if len(prefs.TreatAsText) == 0 {
		return types
	}
	out := make(map[string]models.ColumnType, len(types))
	for k, t := range types {
		out[k] = t
	}
	for _, k := range prefs.TreatAsText {
		out[k] = models.TypeText
	}
	return out
}

// stage returns the memoized value for name when key matches, otherwise
// computes and stores it. Panics in compute become a *StageError.
func stage[T any](p *Pipeline, name, key string, compute func() T) (v T, err error) {
	if s, ok := p.memo[name]; ok && s.key == key {
		p.stats.Add("stage."+name+".reused", 1)
		return s.value.(T), nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = NewStageError(name, fmt.Errorf("panic: %v", r))
		}
	}()
	v = compute()
	p.memo[name] = slot{key: key, value: v}
	p.stats.Add("stage."+name+".computed", 1)
	p.log.Debug().Str("stage", name).Msg("stage recomputed")
	return v, nil
}

type digestSet struct {
	rows, rules, filters, sort, prefs string
}

func (digestSet) join(parts ...string) string { return strings.Join(parts, "|") }

func digests(in Input) (digestSet, error) {
	var d digestSet
	var err error
	if d.rows, err = digest(in.Rows); err != nil {
		return d, fmt.Errorf("rows: %w", err)
	}
	if d.rules, err = digest(in.Rules); err != nil {
		return d, fmt.Errorf("rules: %w", err)
	}
	if d.filters, err = digest(in.Filters); err != nil {
		return d, fmt.Errorf("filters: %w", err)
	}
	if d.sort, err = digest(in.Sort); err != nil {
		return d, fmt.Errorf("sort: %w", err)
	}
	if d.prefs, err = digest(in.Prefs); err != nil {
		return d, fmt.Errorf("prefs: %w", err)
	}
	return d, nil
}

// digest is the SHA-256 of v's JSON encoding.
func digest(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (p *Pipeline) announce(v *View, spec models.SortSpec) {
	msg := fmt.Sprintf("Showing %d of %d rows", len(v.Rows), v.Total)
	var parts []string
	for _, k := range spec {
		if k.Column == "" || models.IsInternal(k.Column) {
			continue
		}
		dir := "ascending"
		if k.Direction == models.Desc {
			dir = "descending"
		}
		parts = append(parts, fmt.Sprintf("%s %s", v.Rules.Label(k.Column), dir))
	}
	if len(parts) > 0 {
		msg += ", sorted by " + strings.Join(parts, ", then ")
	}
	if msg == p.announced {
		return
	}
	p.announced = msg
	p.announcer.Announce(msg)
}
