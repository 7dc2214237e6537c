package filter

import (
	"sort"

	"github.com/goccy/go-json"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// Set is the active filter set, keyed by column. A Set is a value: With and
// Without return new sets and never modify the receiver. Only non-empty
// predicates are stored.
type Set struct {
	specs map[string]models.FilterSpec
}

// NewSet builds a set from specs, dropping empty ones.
func NewSet(specs ...models.FilterSpec) Set {
	var s Set
	for _, spec := range specs {
		s = s.With(spec)
	}
	return s
}

// With returns a set with spec applied. An empty spec clears its column.
func (s Set) With(spec models.FilterSpec) Set {
	out := Set{specs: make(map[string]models.FilterSpec, len(s.specs)+1)}
	for k, v := range s.specs {
		out.specs[k] = v
	}
	if spec.IsEmpty() {
		delete(out.specs, spec.Column)
	} else {
		out.specs[spec.Column] = spec
	}
	return out
}

// Without returns a set without the column's predicate.
func (s Set) Without(column string) Set {
	return s.With(models.FilterSpec{Column: column})
}

// Get returns the predicate for column.
func (s Set) Get(column string) (models.FilterSpec, bool) {
	spec, ok := s.specs[column]
	return spec, ok
}

// Len returns the number of active predicates.
func (s Set) Len() int { return len(s.specs) }

// Active returns the predicates ordered by column key.
func (s Set) Active() []models.FilterSpec {
	out := make([]models.FilterSpec, 0, len(s.specs))
	for _, spec := range s.specs {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Column < out[j].Column })
	return out
}

// MarshalJSON encodes the active predicates in column order.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Active())
}

// UnmarshalJSON decodes a list of predicates.
func (s *Set) UnmarshalJSON(data []byte) error {
	var specs []models.FilterSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return err
	}
	*s = NewSet(specs...)
	return nil
}
