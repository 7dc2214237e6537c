package exgrid

import (
	"errors"
	"fmt"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/export"
)

// ErrNoRows indicates an input without any data rows.
var ErrNoRows = errors.New("no rows")

// ErrUnknownViewport indicates a viewport name outside narrow, medium and wide.
var ErrUnknownViewport = errors.New("unknown viewport")

// ErrUnknownFormat indicates an unsupported export format.
var ErrUnknownFormat = export.ErrUnknownFormat

// StageError represents a failure in one pipeline stage.
type StageError struct {
	Stage string // "detect", "format", "filter", "sort", "columns", "summary"
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(stage string, err error) *StageError {
	return &StageError{
		Stage: stage,
		Err:   err,
	}
}
