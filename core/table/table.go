package table

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"dataset-reconciler/core/normalize"
)

// DefaultProgressInterval is the row count between progress notifications.
// Large enough to keep per-row overhead negligible, small enough that a
// multi-million row scan stays observable.
const DefaultProgressInterval = 50000

// Row is one record's cells keyed by column name as it appears in that
// file's header. A Row is owned by the Indexed table that produced it;
// downstream consumers only read it.
type Row map[string]string

// Indexed is one input file reduced to a composite-key index.
// Keys preserves first-occurrence file order so diff output can follow
// source row order; Rows holds the surviving row per key (last row wins
// on duplicates, counted in Duplicates).
type Indexed struct {
	// Header is the file's column names in file order, trimmed.
	Header []string

	// Keys lists composite keys in first-occurrence order.
	Keys []string

	// Rows maps composite key to the row stored under it.
	Rows map[string]Row

	// Duplicates counts rows whose composite key had already been seen
	// in this file; each overwrote the earlier row under that key.
	Duplicates int
}

// Has reports whether the composite key exists in this table.
func (t *Indexed) Has(key string) bool {
	_, ok := t.Rows[key]
	return ok
}

// Len returns the number of distinct composite keys.
func (t *Indexed) Len() int {
	return len(t.Keys)
}

// insert stores a row under key, keeping first-occurrence order and
// counting overwrites.
func (t *Indexed) insert(key string, row Row) {
	if _, seen := t.Rows[key]; seen {
		t.Duplicates++
	} else {
		t.Keys = append(t.Keys, key)
	}
	t.Rows[key] = row
}

// Reporter receives free-text status notifications from a scan.
// Implementations must not block the producer.
type Reporter interface {
	Status(msg string)
}

// Options controls how a source file is read.
type Options struct {
	// Sheet selects a worksheet by name for workbook sources.
	// Empty means the first sheet.
	Sheet string

	// ProgressEvery is the row interval between status notifications.
	// Zero means DefaultProgressInterval.
	ProgressEvery int

	// Reporter receives scan progress. Nil disables reporting.
	Reporter Reporter

	// Label names the source in progress messages, e.g. "old" or "new".
	Label string
}

func (o Options) interval() int {
	if o.ProgressEvery > 0 {
		return o.ProgressEvery
	}
	return DefaultProgressInterval
}

func (o Options) status(format string, args ...any) {
	if o.Reporter != nil {
		o.Reporter.Status(fmt.Sprintf(format, args...))
	}
}

// Shape identifies how a source file is physically read.
type Shape int

const (
	// ShapeUnknown is an unrecognized file type.
	ShapeUnknown Shape = iota
	// ShapeDelimited is delimited text with a header row.
	ShapeDelimited
	// ShapeWorkbook is a spreadsheet workbook.
	ShapeWorkbook
)

// DetectShape classifies a path by extension.
func DetectShape(path string) Shape {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ShapeDelimited
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ShapeWorkbook
	default:
		return ShapeUnknown
	}
}

// ValidatePair checks the old/new shape pairing before anything is opened.
// The old snapshot may be delimited text or a workbook; the new snapshot
// must be a workbook, because the report re-projects onto its header and
// is itself a workbook.
func ValidatePair(oldPath, newPath string) error {
	if DetectShape(oldPath) == ShapeUnknown {
		return &UnsupportedCombinationError{
			OldPath: oldPath,
			NewPath: newPath,
			Reason:  fmt.Sprintf("old file %q is neither delimited text nor a workbook", filepath.Base(oldPath)),
		}
	}
	if DetectShape(newPath) != ShapeWorkbook {
		return &UnsupportedCombinationError{
			OldPath: oldPath,
			NewPath: newPath,
			Reason:  fmt.Sprintf("new file %q must be a spreadsheet workbook", filepath.Base(newPath)),
		}
	}
	return nil
}

// ReadIndexed streams a source file into a composite-key index.
//
// The header is read once, key columns are resolved by exact match on the
// trimmed header text, then data rows are consumed in a single pass. Each
// row's composite key is built by normalizing the cells at the key-column
// positions in key-column order; the full row is stored under that key,
// last row winning on duplicates. The context is checked at every
// progress-interval boundary.
func ReadIndexed(ctx context.Context, path string, keyColumns []string, opts Options) (*Indexed, error) {
	switch DetectShape(path) {
	case ShapeDelimited:
		return readDelimited(ctx, path, keyColumns, opts)
	case ShapeWorkbook:
		return readWorkbook(ctx, path, keyColumns, opts)
	default:
		return nil, &SourceUnreadableError{Path: path, Err: fmt.Errorf("unrecognized file type %q", filepath.Ext(path))}
	}
}

// resolveKeyPositions maps each key column to its index in the header.
// All key columns must be present or the whole resolution fails.
func resolveKeyPositions(path string, header, keyColumns []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	positions := make([]int, 0, len(keyColumns))
	var missing []string
	for _, col := range keyColumns {
		pos, ok := index[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		positions = append(positions, pos)
	}

	if len(missing) > 0 {
		return nil, &MissingKeyColumnError{Path: path, Missing: missing, Header: header}
	}
	return positions, nil
}

// trimHeader normalizes header cells: the lookup contract is exact match
// on the trimmed header text.
func trimHeader(cells []string) []string {
	header := make([]string, len(cells))
	for i, c := range cells {
		header[i] = strings.TrimSpace(c)
	}
	return header
}

// buildKey normalizes the key cells of one positional row.
// Positions past the end of a short row contribute empty parts.
func buildKey(cells []string, positions []int) string {
	parts := make([]string, len(positions))
	for i, pos := range positions {
		if pos < len(cells) {
			parts[i] = normalize.String(cells[pos])
		}
	}
	return normalize.Key(parts)
}

// buildRow maps a positional row onto the header by name.
// Short rows leave trailing columns absent; extra cells beyond the header
// are dropped, matching how both source shapes pad ragged rows.
func buildRow(header, cells []string) Row {
	row := make(Row, len(header))
	for i, name := range header {
		if i < len(cells) {
			row[name] = cells[i]
		}
	}
	return row
}
