package runs

import "time"

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one reconciliation execution, persisted for history.
type Run struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Status       string `gorm:"size:16;index" json:"status"`
	OldPath      string `json:"old_path"`
	NewPath      string `json:"new_path"`
	OutputPath   string `json:"output_path"`
	KeyColumns   string `json:"key_columns"`
	EntityColumn string `json:"entity_column,omitempty"`

	NewRowCount     int `json:"new_row_count"`
	DeletedRowCount int `json:"deleted_row_count"`
	ChangedRowCount int `json:"changed_row_count"`
	TotalChanges    int `json:"total_changes"`
	DuplicateKeys   int `json:"duplicate_keys"`

	// AffectedEntities is the JSON-encoded sorted entity name list.
	AffectedEntities string `json:"affected_entities,omitempty"`

	// ArchiveObject is the object storage key of the archived report,
	// empty when archiving is disabled or failed.
	ArchiveObject string `json:"archive_object,omitempty"`

	Error     string    `json:"error,omitempty"`
	ElapsedMs int64     `json:"elapsed_ms"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the run-history table name.
func (Run) TableName() string {
	return "reconciliation_runs"
}

// RunRequest is the POST /runs payload.
type RunRequest struct {
	OldPath      string `json:"old_path"`
	NewPath      string `json:"new_path"`
	OutputPath   string `json:"output_path,omitempty"`
	KeyColumns   string `json:"key_columns"`
	OldSheet     string `json:"old_sheet,omitempty"`
	NewSheet     string `json:"new_sheet,omitempty"`
	EntityColumn string `json:"entity_column,omitempty"`
}
