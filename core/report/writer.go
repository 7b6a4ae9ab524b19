package report

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"dataset-reconciler/core/reconcile"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet holding the annotated changes.
const SheetName = "Changes"

// DefaultMaxColWidth caps auto-sized column widths so one long cell does
// not make the report unreadable.
const DefaultMaxColWidth = 60

// minColWidth keeps short columns wide enough for their header.
const minColWidth = 8

// fixedColumns precede the new table's own columns in the report header.
var fixedColumns = []string{"ChangeType", "EntityName", "ShortCode"}

// DestinationWriteError reports a report file that could not be created
// or written. No partial file is left at the destination.
type DestinationWriteError struct {
	Path string
	Err  error
}

func (e *DestinationWriteError) Error() string {
	return fmt.Sprintf("cannot write report to %s: %v", e.Path, e.Err)
}

func (e *DestinationWriteError) Unwrap() error {
	return e.Err
}

// Options controls report rendering.
type Options struct {
	// MaxColWidth caps auto-sized column widths. Zero means
	// DefaultMaxColWidth.
	MaxColWidth float64
}

func (o Options) maxWidth() float64 {
	if o.MaxColWidth > 0 {
		return o.MaxColWidth
	}
	return DefaultMaxColWidth
}

// Write serializes the change records into one annotated workbook at
// outputPath, creating or overwriting it. The header is ChangeType,
// EntityName, ShortCode followed by every new-table column in order; each
// row is filled with its category color for rapid scanning.
//
// The workbook is written to a temporary file beside the destination and
// renamed into place, so a failed run never leaves a partial report.
func Write(changes []reconcile.Change, newHeader []string, outputPath string, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return &DestinationWriteError{Path: outputPath, Err: err}
	}

	styles, err := newStyleSet(f)
	if err != nil {
		return &DestinationWriteError{Path: outputPath, Err: err}
	}

	header := append(append([]string{}, fixedColumns...), newHeader...)
	widths := newWidthTracker(len(header))
	widths.observe(header)

	headerRow := make([]interface{}, len(header))
	for i, name := range header {
		headerRow[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		return &DestinationWriteError{Path: outputPath, Err: err}
	}

	for i, change := range changes {
		cells := make([]string, 0, len(header))
		cells = append(cells, string(change.Type), change.EntityName, change.ShortCode)
		cells = append(cells, change.Values...)
		widths.observe(cells)

		row := make([]interface{}, len(cells))
		for j, v := range cells {
			row[j] = v
		}

		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return &DestinationWriteError{Path: outputPath, Err: err}
		}
		if err := f.SetSheetRow(SheetName, anchor, &row); err != nil {
			return &DestinationWriteError{Path: outputPath, Err: err}
		}

		if err := styleRow(f, styles, change.Type, i+2, len(header)); err != nil {
			return &DestinationWriteError{Path: outputPath, Err: err}
		}
	}

	if err := styleHeader(f, styles, len(header)); err != nil {
		return &DestinationWriteError{Path: outputPath, Err: err}
	}
	if err := widths.apply(f, opts.maxWidth()); err != nil {
		return &DestinationWriteError{Path: outputPath, Err: err}
	}

	if err := saveAtomic(f, outputPath); err != nil {
		return &DestinationWriteError{Path: outputPath, Err: err}
	}
	return nil
}

// styleSet holds the style IDs for the header and the three categories.
type styleSet struct {
	header  int
	newRow  int
	deleted int
	changed int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	fill := func(color, font string) *excelize.Style {
		return &excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Font: &excelize.Font{Color: font},
		}
	}

	var s styleSet
	var err error

	if s.header, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return nil, err
	}
	if s.newRow, err = f.NewStyle(fill("C6EFCE", "006100")); err != nil {
		return nil, err
	}
	if s.deleted, err = f.NewStyle(fill("FFC7CE", "9C0006")); err != nil {
		return nil, err
	}
	if s.changed, err = f.NewStyle(fill("FFEB9C", "9C6500")); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *styleSet) forType(ct reconcile.ChangeType) int {
	switch ct {
	case reconcile.NewRow:
		return s.newRow
	case reconcile.DeletedRow:
		return s.deleted
	default:
		return s.changed
	}
}

func styleRow(f *excelize.File, styles *styleSet, ct reconcile.ChangeType, rowNum, cols int) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(cols, rowNum)
	if err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, start, end, styles.forType(ct))
}

func styleHeader(f *excelize.File, styles *styleSet, cols int) error {
	end, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, "A1", end, styles.header)
}

// widthTracker records the widest cell per column so columns can be sized
// to content.
type widthTracker struct {
	max []int
}

func newWidthTracker(cols int) *widthTracker {
	return &widthTracker{max: make([]int, cols)}
}

func (w *widthTracker) observe(cells []string) {
	for i, cell := range cells {
		if i >= len(w.max) {
			break
		}
		if n := utf8.RuneCountInString(cell); n > w.max[i] {
			w.max[i] = n
		}
	}
}

func (w *widthTracker) apply(f *excelize.File, capWidth float64) error {
	for i, runes := range w.max {
		width := float64(runes) + 2
		if width < minColWidth {
			width = minColWidth
		}
		if width > capWidth {
			width = capWidth
		}

		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// saveAtomic writes the workbook to a temp file in the destination
// directory and renames it into place.
func saveAtomic(f *excelize.File, outputPath string) error {
	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, ".report-*.xlsx")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	// excelize reopens the path itself; we only needed the reservation.
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := f.SaveAs(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
