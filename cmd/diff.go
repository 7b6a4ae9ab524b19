package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dataset-reconciler/core/config"
	"dataset-reconciler/core/logger"
	"dataset-reconciler/core/runner"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the diff command
	diffKeys     string
	diffOut      string
	diffOldSheet string
	diffNewSheet string
	diffEntity   string
)

// diffCmd reconciles two snapshots into an annotated report.
var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Reconcile two dataset snapshots into a change report",
	Long: `Reconcile an old and a new snapshot of the same dataset by composite key.

The old snapshot may be a delimited text file (.csv) or a workbook; the
new snapshot must be a workbook. Every new, deleted and changed record is
written to a styled report workbook.

Examples:
  # Single key column
  diff old.csv new.xlsx --keys Name

  # Composite key, explicit output and sheets
  diff old.xlsx new.xlsx --keys "Region, Name" --out changes.xlsx --new-sheet Data`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffKeys, "keys", "", "Comma-separated key column names (required)")
	diffCmd.Flags().StringVar(&diffOut, "out", "", "Report path (default: <new>-changes.xlsx)")
	diffCmd.Flags().StringVar(&diffOldSheet, "old-sheet", "", "Worksheet of the old snapshot (default: first)")
	diffCmd.Flags().StringVar(&diffNewSheet, "new-sheet", "", "Worksheet of the new snapshot (default: first)")
	diffCmd.Flags().StringVar(&diffEntity, "entity-column", "", "Display-name column (default: first key column)")
	_ = diffCmd.MarkFlagRequired("keys")

	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	out := diffOut
	if out == "" {
		out = defaultReportPath(args[1])
	}

	// Ctrl-C cancels the run between pipeline stages.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spec := runner.Spec{
		OldPath:       args[0],
		NewPath:       args[1],
		OutputPath:    out,
		KeyColumns:    diffKeys,
		OldSheet:      diffOldSheet,
		NewSheet:      diffNewSheet,
		EntityColumn:  diffEntity,
		ProgressEvery: cfg.Reconcile.ProgressInterval,
		MaxColWidth:   cfg.Reconcile.MaxColWidth,
	}

	l.Info("Starting reconciliation",
		zap.String("old", spec.OldPath),
		zap.String("new", spec.NewPath),
		zap.String("keys", diffKeys),
	)

	summary, err := runner.RunSync(ctx, spec, func(msg string) {
		l.Info(msg)
	})
	if err != nil {
		return err
	}

	l.Info("Reconciliation complete",
		zap.String("report", out),
		zap.Int("new_rows", summary.NewRowCount),
		zap.Int("deleted_rows", summary.DeletedRowCount),
		zap.Int("changed_rows", summary.ChangedRowCount),
		zap.Int("total_changes", summary.TotalChanges),
		zap.Duration("elapsed", summary.Elapsed),
	)
	if summary.DuplicateKeys > 0 {
		l.Warn("Duplicate keys encountered (last row won)",
			zap.Int("count", summary.DuplicateKeys),
		)
	}
	if len(summary.AffectedEntities) > 0 {
		l.Info("Affected entities",
			zap.Int("count", len(summary.AffectedEntities)),
			zap.Strings("names", sampleNames(summary.AffectedEntities, 10)),
		)
	}

	return nil
}

// defaultReportPath derives "<new snapshot>-changes.xlsx" next to the new
// snapshot.
func defaultReportPath(newPath string) string {
	base := newPath
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base + "-changes.xlsx"
}

// sampleNames returns at most max names, appending an ellipsis entry when
// truncated.
func sampleNames(names []string, max int) []string {
	if len(names) <= max {
		return names
	}
	sample := make([]string, max+1)
	copy(sample, names[:max])
	sample[max] = fmt.Sprintf("... and %d more", len(names)-max)
	return sample
}
