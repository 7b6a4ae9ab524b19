package runner

// Config holds tunables for reconciliation runs.
type Config struct {
	// ProgressInterval is the row count between progress notifications
	// during file scans.
	ProgressInterval int `mapstructure:"progress_interval" default:"50000"`
	// MaxColWidth caps auto-sized report column widths.
	MaxColWidth float64 `mapstructure:"max_col_width" default:"60"`
	// OutputDir is where HTTP-triggered runs place their reports.
	OutputDir string `mapstructure:"output_dir" default:"reports"`
	// ArchiveReports uploads each produced report to object storage.
	ArchiveReports bool `mapstructure:"archive_reports" default:"false"`
	// ArchivePrefix is the object key prefix for archived reports.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"reports"`
}
