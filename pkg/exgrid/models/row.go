package models

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// InternalPrefix marks internal row keys (row identity, expansion and
// selection state). Internal keys never reach inference, filters, sort or export.
const InternalPrefix = "_"

// IsInternal reports whether key is reserved for internal row state.
func IsInternal(key string) bool {
	return strings.HasPrefix(key, InternalPrefix)
}

// Row is an ordered mapping from column key to Cell.
type Row struct {
	keys  []string
	cells map[string]Cell
}

// NewRow builds a row from alternating key/value pairs.
// Values are converted with CellOf.
func NewRow(kv ...any) Row {
	var r Row
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		r.Set(key, CellOf(kv[i+1]))
	}
	return r
}

// Set stores a cell, appending the key if it is new.
func (r *Row) Set(key string, c Cell) {
	if r.cells == nil {
		r.cells = make(map[string]Cell)
	}
	if _, ok := r.cells[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.cells[key] = c
}

// Get returns the cell for key and whether it is present.
func (r Row) Get(key string) (Cell, bool) {
	c, ok := r.cells[key]
	return c, ok
}

// Cell returns the cell for key, or a null cell.
func (r Row) Cell(key string) Cell {
	return r.cells[key]
}

// Keys returns all keys in insertion order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// DataKeys returns the non-internal keys in insertion order.
func (r Row) DataKeys() []string {
	out := make([]string, 0, len(r.keys))
	for _, k := range r.keys {
		if !IsInternal(k) {
			out = append(out, k)
		}
	}
	return out
}

// Len returns the number of keys.
func (r Row) Len() int { return len(r.keys) }

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := Row{keys: r.Keys(), cells: make(map[string]Cell, len(r.cells))}
	for k, c := range r.cells {
		if c.Style != nil {
			s := *c.Style
			c.Style = &s
		}
		out.cells[k] = c
	}
	return out
}

// MarshalJSON encodes the row as a JSON object in key order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		cb, err := r.cells[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(cb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row: expected object, got %v", tok)
	}
	*r = Row{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("row: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("row: key %q: %w", key, err)
		}
		var c Cell
		if err := c.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("row: key %q: %w", key, err)
		}
		r.Set(key, c)
	}
	_, err = dec.Token()
	return err
}

// DataColumns returns the union of non-internal keys across rows in
// first-seen order.
func DataColumns(rows []Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		for _, k := range r.keys {
			if IsInternal(k) || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
