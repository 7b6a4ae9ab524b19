package table

import (
	"fmt"
	"strings"
)

// MissingKeyColumnError reports key columns that do not exist in a source
// file's header. It is raised after the header row is read and before any
// data row, so no partial index is ever built on a bad key set.
type MissingKeyColumnError struct {
	// Path is the source file whose header was inspected.
	Path string
	// Missing lists the requested key columns absent from the header.
	Missing []string
	// Header is the header actually found, in file order.
	Header []string
}

func (e *MissingKeyColumnError) Error() string {
	return fmt.Sprintf("key column(s) %s not found in %s (header: %s)",
		strings.Join(e.Missing, ", "), e.Path, strings.Join(e.Header, ", "))
}

// SourceUnreadableError reports a file that cannot be opened or parsed:
// missing, corrupt, wrong format, or naming a sheet the workbook lacks.
type SourceUnreadableError struct {
	Path string
	Err  error
}

func (e *SourceUnreadableError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *SourceUnreadableError) Unwrap() error {
	return e.Err
}

// UnsupportedCombinationError reports an old/new shape pairing outside the
// supported set. It is raised before any file is opened.
type UnsupportedCombinationError struct {
	OldPath string
	NewPath string
	Reason  string
}

func (e *UnsupportedCombinationError) Error() string {
	return fmt.Sprintf("unsupported file combination (old=%s, new=%s): %s", e.OldPath, e.NewPath, e.Reason)
}
