package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readWorkbook streams a worksheet into an index using excelize's row
// iterator, so the sheet is walked once without materializing it.
func readWorkbook(ctx context.Context, path string, keyColumns []string, opts Options) (*Indexed, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &SourceUnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	sheet, err := selectSheet(f, path, opts.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, &SourceUnreadableError{Path: path, Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, &SourceUnreadableError{Path: path, Err: fmt.Errorf("sheet %q has no header row", sheet)}
	}
	headerCells, err := rows.Columns()
	if err != nil {
		return nil, &SourceUnreadableError{Path: path, Err: err}
	}
	header := trimHeader(headerCells)

	positions, err := resolveKeyPositions(path, header, keyColumns)
	if err != nil {
		return nil, err
	}

	indexed := &Indexed{Header: header, Rows: make(map[string]Row)}
	interval := opts.interval()
	scanned := 0

	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return nil, &SourceUnreadableError{Path: path, Err: err}
		}

		indexed.insert(buildKey(cells, positions), buildRow(header, cells))
		scanned++

		if scanned%interval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			opts.status("Scanned %d rows from %s file...", scanned, opts.Label)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, &SourceUnreadableError{Path: path, Err: err}
	}

	opts.status("Indexed %d rows (%d distinct keys) from %s file", scanned, indexed.Len(), opts.Label)
	return indexed, nil
}

// selectSheet resolves the worksheet to read: the named sheet if given,
// otherwise the workbook's first sheet.
func selectSheet(f *excelize.File, path, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", &SourceUnreadableError{Path: path, Err: errors.New("workbook has no sheets")}
	}

	if name == "" {
		return sheets[0], nil
	}

	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", &SourceUnreadableError{Path: path, Err: fmt.Errorf("sheet %q not found (sheets: %v)", name, sheets)}
}
