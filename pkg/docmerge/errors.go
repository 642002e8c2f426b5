package docmerge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/classify"
)

// ErrNoData indicates an export was requested for datasets that are all empty.
var ErrNoData = errors.New("no data to export")

// ErrEmptyExtraction indicates a file was read but produced no qualifying rows.
var ErrEmptyExtraction = errors.New("no valid data found")

// ErrDuplicateFile indicates a file name was already processed in the session.
var ErrDuplicateFile = errors.New("file already processed")

// NameValidationError lists every file of a batch whose extension is
// supported but whose name matches no naming rule of the group.
type NameValidationError struct {
	Group classify.Group
	Names []string
}

func (e *NameValidationError) Error() string {
	return fmt.Sprintf("invalid file names for group %q: %s", e.Group, strings.Join(e.Names, ", "))
}

// ReadError represents a file that could not be parsed as a spreadsheet.
type ReadError struct {
	File string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %q: %v", e.File, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewReadError creates a new ReadError.
func NewReadError(file string, err error) *ReadError {
	return &ReadError{
		File: file,
		Err:  err,
	}
}
