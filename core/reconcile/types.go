package reconcile

import "time"

// ChangeType classifies the outcome of reconciling a single composite key.
type ChangeType string

const (
	// NewRow marks a key present only in the new snapshot.
	NewRow ChangeType = "NEW ROW"
	// DeletedRow marks a key present only in the old snapshot.
	DeletedRow ChangeType = "DELETED ROW"
	// CellChange marks a key present in both snapshots with at least one
	// non-key column differing after normalization.
	CellChange ChangeType = "CELL CHANGE"
)

// Change is one classified record.
type Change struct {
	// Type is the change category.
	Type ChangeType `json:"type"`

	// Key is the composite key the record was matched on.
	Key string `json:"key"`

	// EntityName is the record's display name, taken from the designated
	// entity column and falling back to the first key-column value.
	EntityName string `json:"entity_name"`

	// ShortCode is the first 4 runes of EntityName, used for grouping.
	ShortCode string `json:"short_code"`

	// Values is the record's output row aligned to the new table's header.
	// New and changed records carry the new row's values; deleted records
	// carry the old row re-projected onto the new header.
	Values []string `json:"values"`
}

// RunSummary aggregates one reconciliation execution.
type RunSummary struct {
	// NewRowCount is the number of NewRow changes.
	NewRowCount int `json:"new_row_count"`

	// DeletedRowCount is the number of DeletedRow changes.
	DeletedRowCount int `json:"deleted_row_count"`

	// ChangedRowCount is the number of CellChange changes.
	ChangedRowCount int `json:"changed_row_count"`

	// TotalChanges is the sum of the three category counts.
	TotalChanges int `json:"total_changes"`

	// AffectedEntities is the sorted, de-duplicated display names of every
	// changed record.
	AffectedEntities []string `json:"affected_entities"`

	// DuplicateKeys counts rows across both input files whose composite
	// key collided with an earlier row in the same file (last row won).
	// The original tool discarded those rows silently; the count lets a
	// caller detect the condition.
	DuplicateKeys int `json:"duplicate_keys"`

	// Elapsed is the wall-clock duration of the full pipeline,
	// stamped by the runner.
	Elapsed time.Duration `json:"elapsed"`
}
