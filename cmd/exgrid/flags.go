package main

import (
	"fmt"
	"strings"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/filter"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

var operatorAliases = map[string]models.Operator{
	"equals":    models.OpEquals,
	"eq":        models.OpEquals,
	"gte":       models.OpGTE,
	"lte":       models.OpLTE,
	"daterange": models.OpDateRange,
	"range":     models.OpDateRange,
}

// parseFilter parses col:op:value or col:dateRange:from:to. The column is
// everything before the first segment naming a known operator.
func parseFilter(s string) (models.FilterSpec, error) {
	parts := strings.Split(s, ":")
	for i := 1; i < len(parts); i++ {
		op, ok := operatorAliases[strings.ToLower(parts[i])]
		if !ok {
			continue
		}
		spec := models.FilterSpec{
			Column:   strings.Join(parts[:i], ":"),
			Operator: op,
		}
		rest := parts[i+1:]
		if op != models.OpDateRange {
			spec.Value = strings.Join(rest, ":")
			return spec, nil
		}
		if len(rest) > 2 {
			return models.FilterSpec{}, fmt.Errorf("invalid filter %q: want col:dateRange:from:to", s)
		}
		spec.Type = models.FilterDate
		if len(rest) > 0 {
			spec.From = rest[0]
		}
		if len(rest) > 1 {
			spec.To = rest[1]
		}
		return spec, nil
	}
	return models.FilterSpec{}, fmt.Errorf("invalid filter %q: want col:op:value with op one of equals, gte, lte, dateRange", s)
}

func parseFilters(values []string) (filter.Set, error) {
	var set filter.Set
	for _, v := range values {
		spec, err := parseFilter(v)
		if err != nil {
			return filter.Set{}, err
		}
		set = set.With(spec)
	}
	return set, nil
}

// parseSort parses col, col:asc or col:desc.
func parseSort(values []string) (models.SortSpec, error) {
	var spec models.SortSpec
	for _, v := range values {
		col, dir := v, models.Asc
		if i := strings.LastIndex(v, ":"); i >= 0 {
			switch strings.ToLower(v[i+1:]) {
			case "asc":
				col = v[:i]
			case "desc":
				col, dir = v[:i], models.Desc
			}
		}
		if col == "" {
			return nil, fmt.Errorf("invalid sort %q", v)
		}
		spec = append(spec, models.SortKey{Column: col, Direction: dir})
	}
	return spec, nil
}
