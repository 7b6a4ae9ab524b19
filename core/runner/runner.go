package runner

import (
	"context"
	"fmt"
	"time"

	"dataset-reconciler/core/normalize"
	"dataset-reconciler/core/progress"
	"dataset-reconciler/core/reconcile"
	"dataset-reconciler/core/report"
	"dataset-reconciler/core/table"

	"golang.org/x/sync/errgroup"
)

// Spec describes one reconciliation run.
type Spec struct {
	// OldPath and NewPath are the two snapshot files. The old snapshot
	// may be delimited text or a workbook; the new snapshot must be a
	// workbook.
	OldPath string
	NewPath string

	// OutputPath receives the annotated report workbook.
	OutputPath string

	// KeyColumns is the caller-supplied comma-delimited key column list,
	// e.g. "EntityName, RecordName".
	KeyColumns string

	// OldSheet and NewSheet select worksheets for workbook sources.
	// Empty means the first sheet.
	OldSheet string
	NewSheet string

	// EntityColumn names the display-name column. Empty falls back to
	// the first key column.
	EntityColumn string

	// ProgressEvery overrides the row interval between progress
	// notifications. Zero means the table package default.
	ProgressEvery int

	// MaxColWidth overrides the report column width cap. Zero means the
	// report package default.
	MaxColWidth float64
}

func (s Spec) validate() error {
	if s.OldPath == "" || s.NewPath == "" {
		return fmt.Errorf("both an old and a new snapshot path are required")
	}
	if s.OutputPath == "" {
		return fmt.Errorf("an output path is required")
	}
	if len(normalize.SplitColumns(s.KeyColumns)) == 0 {
		return fmt.Errorf("at least one key column is required")
	}
	return nil
}

// Run executes the full pipeline (read old, read new, reconcile, write
// report) on its own goroutine and returns the progress channel
// immediately. The caller never blocks on the work; it consumes status
// messages and the single terminal success-or-failure message from the
// returned channel.
func Run(ctx context.Context, spec Spec) <-chan progress.Message {
	ch := progress.NewChannel()
	go execute(ctx, spec, ch)
	return ch.Messages()
}

// RunSync executes the pipeline and blocks until it finishes, forwarding
// status lines to onStatus (which may be nil). It returns the run summary
// or the terminal error.
func RunSync(ctx context.Context, spec Spec, onStatus func(string)) (*reconcile.RunSummary, error) {
	for msg := range Run(ctx, spec) {
		if msg.Terminal {
			if msg.Err != nil {
				return nil, msg.Err
			}
			return msg.Summary, nil
		}
		if onStatus != nil {
			onStatus(msg.Text)
		}
	}
	return nil, fmt.Errorf("progress channel closed without a terminal message")
}

func execute(ctx context.Context, spec Spec, ch *progress.Channel) {
	started := time.Now()

	if err := spec.validate(); err != nil {
		ch.Fail(err)
		return
	}
	if err := table.ValidatePair(spec.OldPath, spec.NewPath); err != nil {
		ch.Fail(err)
		return
	}

	keyColumns := normalize.SplitColumns(spec.KeyColumns)

	// The two reads share no mutable state, so they run concurrently to
	// cut wall-clock time on large files.
	var oldTable, newTable *table.Indexed
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		oldTable, err = table.ReadIndexed(gctx, spec.OldPath, keyColumns, table.Options{
			Sheet:         spec.OldSheet,
			ProgressEvery: spec.ProgressEvery,
			Reporter:      ch,
			Label:         "old",
		})
		return err
	})
	g.Go(func() error {
		var err error
		newTable, err = table.ReadIndexed(gctx, spec.NewPath, keyColumns, table.Options{
			Sheet:         spec.NewSheet,
			ProgressEvery: spec.ProgressEvery,
			Reporter:      ch,
			Label:         "new",
		})
		return err
	})

	if err := g.Wait(); err != nil {
		ch.Fail(err)
		return
	}
	if err := ctx.Err(); err != nil {
		ch.Fail(err)
		return
	}

	ch.Status("Comparing snapshots...")
	changes, summary := reconcile.Diff(oldTable, newTable, keyColumns, spec.EntityColumn)

	ch.Status(fmt.Sprintf("Writing %d change(s) to %s", len(changes), spec.OutputPath))
	if err := report.Write(changes, newTable.Header, spec.OutputPath, report.Options{MaxColWidth: spec.MaxColWidth}); err != nil {
		ch.Fail(err)
		return
	}

	summary.Elapsed = time.Since(started)
	ch.Success(fmt.Sprintf("Report written: %d new, %d deleted, %d changed",
		summary.NewRowCount, summary.DeletedRowCount, summary.ChangedRowCount), summary)
}
