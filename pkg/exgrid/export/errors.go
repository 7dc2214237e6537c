package export

import (
	"errors"
	"fmt"
)

// ErrCapacity indicates the table has more rows than the writer accepts.
var ErrCapacity = errors.New("row count exceeds export limit")

// ErrUnknownFormat indicates an unsupported export format name.
var ErrUnknownFormat = errors.New("unknown export format")

// ErrUnsupportedLogo indicates logo bytes in a format the writers cannot embed.
var ErrUnsupportedLogo = errors.New("unsupported logo image format")

// CapacityError reports a rejected export with the actual and allowed row counts.
type CapacityError struct {
	Format Format
	Rows   int
	Limit  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s export of %d rows exceeds the limit of %d rows; narrow the filters and try again",
		e.Format, e.Rows, e.Limit)
}

// Is matches ErrCapacity.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}

// DispatchError reports a failed mail hand-off. The produced document is kept.
type DispatchError struct {
	Recipient string
	Document  []byte
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("mail dispatch to %q failed: %v", e.Recipient, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
