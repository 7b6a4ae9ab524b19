package runs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dataset-reconciler/core/runner"
	"dataset-reconciler/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoHistory is returned by List and Get when no database is configured.
var ErrNoHistory = errors.New("run history requires a configured database")

const defaultListLimit = 50

// Service executes reconciliation runs and manages their history.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB
	cfg    runner.Config
}

// NewService creates a new runs service. db may be nil (no history) and
// client may be nil (no archiving).
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, cfg runner.Config) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
		db:     db,
		cfg:    cfg,
	}
}

// Migrate creates the run-history table when a database is configured.
func (s *Service) Migrate() error {
	if s.db == nil {
		return nil
	}
	return s.db.AutoMigrate(&Run{})
}

// Execute runs the full reconciliation pipeline for the request, persists
// the resulting run record and archives the report when enabled. The run
// record is returned even when the pipeline fails, alongside the error.
func (s *Service) Execute(ctx context.Context, req RunRequest) (*Run, error) {
	run := &Run{
		ID:           uuid.NewString(),
		Status:       StatusFailed,
		OldPath:      req.OldPath,
		NewPath:      req.NewPath,
		KeyColumns:   req.KeyColumns,
		EntityColumn: req.EntityColumn,
		CreatedAt:    time.Now().UTC(),
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
			run.Error = err.Error()
			s.persist(run)
			return run, fmt.Errorf("failed to create output directory: %w", err)
		}
		outputPath = filepath.Join(s.cfg.OutputDir, fmt.Sprintf("reconcile-%s.xlsx", run.ID[:8]))
	}
	run.OutputPath = outputPath

	spec := runner.Spec{
		OldPath:       req.OldPath,
		NewPath:       req.NewPath,
		OutputPath:    outputPath,
		KeyColumns:    req.KeyColumns,
		OldSheet:      req.OldSheet,
		NewSheet:      req.NewSheet,
		EntityColumn:  req.EntityColumn,
		ProgressEvery: s.cfg.ProgressInterval,
		MaxColWidth:   s.cfg.MaxColWidth,
	}

	summary, err := runner.RunSync(ctx, spec, func(msg string) {
		s.logger.Debug("Run progress", zap.String("run_id", run.ID), zap.String("status", msg))
	})
	if err != nil {
		run.Error = err.Error()
		s.persist(run)
		return run, err
	}

	run.Status = StatusSucceeded
	run.NewRowCount = summary.NewRowCount
	run.DeletedRowCount = summary.DeletedRowCount
	run.ChangedRowCount = summary.ChangedRowCount
	run.TotalChanges = summary.TotalChanges
	run.DuplicateKeys = summary.DuplicateKeys
	run.ElapsedMs = summary.Elapsed.Milliseconds()
	if entities, err := json.Marshal(summary.AffectedEntities); err == nil {
		run.AffectedEntities = string(entities)
	}

	if s.cfg.ArchiveReports && s.client != nil {
		if object, err := s.archive(ctx, run); err != nil {
			s.logger.Warn("Failed to archive report",
				zap.String("run_id", run.ID),
				zap.Error(err),
			)
		} else {
			run.ArchiveObject = object
		}
	}

	s.persist(run)
	return run, nil
}

// List returns the most recent runs, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Run, error) {
	if s.db == nil {
		return nil, ErrNoHistory
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	var records []Run
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return records, nil
}

// Get returns a single run by id. Returns gorm.ErrRecordNotFound when
// the id is unknown.
func (s *Service) Get(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNoHistory
	}

	var record Run
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// archive uploads the report workbook to object storage under
// <prefix>/<runID>.xlsx and returns the object key.
func (s *Service) archive(ctx context.Context, run *Run) (string, error) {
	f, err := os.Open(run.OutputPath)
	if err != nil {
		return "", fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat report: %w", err)
	}

	object := s.cfg.ArchivePrefix + "/" + run.ID + ".xlsx"
	_, err = s.client.PutObject(ctx, s.bucket, object, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	s.logger.Info("Report archived",
		zap.String("bucket", s.bucket),
		zap.String("object", object),
	)
	return object, nil
}

// persist writes the run record when a database is configured. A failed
// insert is logged, not propagated, so history problems never mask the
// run result.
func (s *Service) persist(run *Run) {
	if s.db == nil {
		return
	}
	if err := s.db.Create(run).Error; err != nil {
		s.logger.Error("Failed to persist run record",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
	}
}
