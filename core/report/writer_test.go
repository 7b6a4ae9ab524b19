package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dataset-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleChanges() []reconcile.Change {
	return []reconcile.Change{
		{Type: reconcile.NewRow, Key: "gamma", EntityName: "gamma", ShortCode: "gamm", Values: []string{"gamma", "1"}},
		{Type: reconcile.DeletedRow, Key: "delta", EntityName: "delta", ShortCode: "delt", Values: []string{"delta", ""}},
		{Type: reconcile.CellChange, Key: "beta", EntityName: "beta", ShortCode: "beta", Values: []string{"beta", "3"}},
	}
}

func TestWriteReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "changes.xlsx")
	newHeader := []string{"Name", "Tier"}

	require.NoError(t, Write(sampleChanges(), newHeader, out, Options{}))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"ChangeType", "EntityName", "ShortCode", "Name", "Tier"}, rows[0])
	assert.Equal(t, []string{"NEW ROW", "gamma", "gamm", "gamma", "1"}, rows[1])
	assert.Equal(t, "DELETED ROW", rows[2][0])
	assert.Equal(t, []string{"CELL CHANGE", "beta", "beta", "beta", "3"}, rows[3])
}

func TestWriteStylesDifferPerCategory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "changes.xlsx")

	require.NoError(t, Write(sampleChanges(), []string{"Name", "Tier"}, out, Options{}))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	newStyle, err := f.GetCellStyle(SheetName, "A2")
	require.NoError(t, err)
	deletedStyle, err := f.GetCellStyle(SheetName, "A3")
	require.NoError(t, err)
	changedStyle, err := f.GetCellStyle(SheetName, "A4")
	require.NoError(t, err)

	assert.NotEqual(t, newStyle, deletedStyle)
	assert.NotEqual(t, deletedStyle, changedStyle)
	assert.NotEqual(t, newStyle, changedStyle)
}

func TestWriteEmptyChanges(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.xlsx")

	require.NoError(t, Write(nil, []string{"Name"}, out, Options{}))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"ChangeType", "EntityName", "ShortCode", "Name"}, rows[0])
}

func TestWriteColumnWidths(t *testing.T) {
	out := filepath.Join(t.TempDir(), "widths.xlsx")
	long := strings.Repeat("x", 200)
	changes := []reconcile.Change{
		{Type: reconcile.NewRow, EntityName: "a", ShortCode: "a", Values: []string{long, "1"}},
	}

	require.NoError(t, Write(changes, []string{"Name", "T"}, out, Options{MaxColWidth: 20}))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	// The long cell's column is capped, the tiny one is floored.
	nameWidth, err := f.GetColWidth(SheetName, "D")
	require.NoError(t, err)
	assert.Equal(t, 20.0, nameWidth)

	tierWidth, err := f.GetColWidth(SheetName, "E")
	require.NoError(t, err)
	assert.Equal(t, 8.0, tierWidth)
}

func TestWriteBadDestination(t *testing.T) {
	out := filepath.Join(t.TempDir(), "absent-dir", "changes.xlsx")

	err := Write(sampleChanges(), []string{"Name"}, out, Options{})
	var destErr *DestinationWriteError
	require.ErrorAs(t, err, &destErr)
	assert.Equal(t, out, destErr.Path)

	// Nothing was left at the destination.
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
