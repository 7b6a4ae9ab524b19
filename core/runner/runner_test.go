package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dataset-reconciler/core/reconcile"
	"dataset-reconciler/core/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeWorkbook(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func fixtureSpec(t *testing.T) Spec {
	t.Helper()
	dir := t.TempDir()

	oldPath := writeCSV(t, dir, "old.csv", "Name,Tier\nalpha,1\nbeta,2\ndelta,5\n")
	newPath := writeWorkbook(t, dir, "new.xlsx", [][]string{
		{"Name", "Tier"},
		{"alpha", "1"},
		{"beta", "3"},
		{"gamma", "1"},
	})

	return Spec{
		OldPath:    oldPath,
		NewPath:    newPath,
		OutputPath: filepath.Join(dir, "changes.xlsx"),
		KeyColumns: "Name",
	}
}

func TestRunEndToEnd(t *testing.T) {
	spec := fixtureSpec(t)

	var statuses []string
	var terminal int
	var summary *reconcile.RunSummary

	for msg := range Run(context.Background(), spec) {
		if msg.Terminal {
			terminal++
			require.NoError(t, msg.Err)
			summary = msg.Summary
			continue
		}
		statuses = append(statuses, msg.Text)
	}

	assert.Equal(t, 1, terminal)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.NewRowCount)
	assert.Equal(t, 1, summary.DeletedRowCount)
	assert.Equal(t, 1, summary.ChangedRowCount)
	assert.Equal(t, 3, summary.TotalChanges)
	assert.Greater(t, summary.Elapsed.Nanoseconds(), int64(0))

	// The non-terminal stream narrates the stages.
	joined := strings.Join(statuses, "\n")
	assert.Contains(t, joined, "Comparing snapshots")
	assert.Contains(t, joined, "Writing 3 change(s)")

	// The report is on disk with one row per change.
	f, err := excelize.OpenFile(spec.OutputPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Changes")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestRunSync(t *testing.T) {
	spec := fixtureSpec(t)

	var statuses []string
	summary, err := RunSync(context.Background(), spec, func(msg string) {
		statuses = append(statuses, msg)
	})

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalChanges)
	assert.NotEmpty(t, statuses)
}

func TestRunRejectsUnsupportedPair(t *testing.T) {
	dir := t.TempDir()
	spec := Spec{
		OldPath:    writeCSV(t, dir, "old.csv", "Name\na\n"),
		NewPath:    writeCSV(t, dir, "new.csv", "Name\na\n"),
		OutputPath: filepath.Join(dir, "changes.xlsx"),
		KeyColumns: "Name",
	}

	_, err := RunSync(context.Background(), spec, nil)
	var pairErr *table.UnsupportedCombinationError
	require.ErrorAs(t, err, &pairErr)

	_, statErr := os.Stat(spec.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingKeyColumn(t *testing.T) {
	spec := fixtureSpec(t)
	spec.KeyColumns = "Name, Region"

	_, err := RunSync(context.Background(), spec, nil)
	var missingErr *table.MissingKeyColumnError
	require.ErrorAs(t, err, &missingErr)
	assert.Contains(t, missingErr.Missing, "Region")

	_, statErr := os.Stat(spec.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunValidatesSpec(t *testing.T) {
	_, err := RunSync(context.Background(), Spec{}, nil)
	assert.Error(t, err)

	_, err = RunSync(context.Background(), Spec{
		OldPath:    "old.csv",
		NewPath:    "new.xlsx",
		OutputPath: "out.xlsx",
		KeyColumns: " , ",
	}, nil)
	assert.Error(t, err)
}

func TestRunCancelledContext(t *testing.T) {
	spec := fixtureSpec(t)
	spec.ProgressEvery = 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunSync(ctx, spec, nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(spec.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}
