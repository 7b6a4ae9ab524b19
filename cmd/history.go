package cmd

import (
	"context"
	"fmt"

	"dataset-reconciler/core/config"
	"dataset-reconciler/core/database"
	"dataset-reconciler/core/logger"
	"dataset-reconciler/core/runner"
	"dataset-reconciler/feature/runs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historyLimit int

// historyCmd lists recent reconciliation runs from the database.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent reconciliation runs",
	Long:  `Lists recent reconciliation runs recorded in the history database, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	svc := runs.NewService(nil, "", l, db, runner.Config{})
	if err := svc.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate history table: %w", err)
	}

	records, err := svc.List(context.Background(), historyLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		l.Info("No runs recorded yet")
		return nil
	}

	for _, r := range records {
		fields := []zap.Field{
			zap.String("id", r.ID),
			zap.String("status", r.Status),
			zap.Time("created_at", r.CreatedAt),
			zap.String("old", r.OldPath),
			zap.String("new", r.NewPath),
		}
		if r.Status == runs.StatusSucceeded {
			fields = append(fields,
				zap.Int("new_rows", r.NewRowCount),
				zap.Int("deleted_rows", r.DeletedRowCount),
				zap.Int("changed_rows", r.ChangedRowCount),
				zap.String("report", r.OutputPath),
			)
		} else {
			fields = append(fields, zap.String("error", r.Error))
		}
		l.Info("Run", fields...)
	}

	return nil
}
