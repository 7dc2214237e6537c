// Package source reads rows from JSON documents and worksheets.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// ErrUnsupportedInput indicates an input file type without a reader.
var ErrUnsupportedInput = errors.New("unsupported input type")

// ReadJSON decodes a JSON array of objects. Key order of each object is kept.
// A null document yields no rows.
func ReadJSON(r io.Reader) ([]models.Row, error) {
	var rows []models.Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

// ReadFile reads rows from path, choosing the reader by extension.
func ReadFile(path string, opts XLSXOptions) ([]models.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(f)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
}
