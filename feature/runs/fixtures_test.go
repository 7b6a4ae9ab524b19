package runs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeCSV writes rows as a comma-delimited file and returns its path.
func writeCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("Failed to write csv fixture: %v", err)
	}
	return path
}

// writeWorkbook writes rows to the first sheet of a new workbook and
// returns its path.
func writeWorkbook(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("Failed to build cell name: %v", err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			t.Fatalf("Failed to write sheet row: %v", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook fixture: %v", err)
	}
	return path
}
