package reconcile

import (
	"sort"

	"dataset-reconciler/core/normalize"
	"dataset-reconciler/core/table"
)

// Diff classifies every composite key across two indexed snapshots.
//
// Three passes, appended in order: keys only in new (NewRow), keys only in
// old (DeletedRow), then keys in both whose non-key columns differ after
// normalization (CellChange). Within a category, output follows the owning
// table's insertion order, which is file row order for distinct keys.
// Unchanged records produce nothing.
//
// Key columns are excluded from the cell comparison: equal keys make them
// equal by construction. A column absent from a row compares as the empty
// string. Both tables are already validated by the reader, so Diff itself
// has no failure modes.
func Diff(oldTable, newTable *table.Indexed, keyColumns []string, entityColumn string) ([]Change, *RunSummary) {
	changes := make([]Change, 0)
	summary := &RunSummary{
		DuplicateKeys: oldTable.Duplicates + newTable.Duplicates,
	}

	entityCol := entityColumn
	if entityCol == "" && len(keyColumns) > 0 {
		entityCol = keyColumns[0]
	}

	keySet := make(map[string]struct{}, len(keyColumns))
	for _, col := range keyColumns {
		keySet[col] = struct{}{}
	}

	// Pass 1: rows added in the new snapshot.
	for _, key := range newTable.Keys {
		if oldTable.Has(key) {
			continue
		}
		row := newTable.Rows[key]
		changes = append(changes, buildChange(NewRow, key, row, newTable.Header, entityCol))
		summary.NewRowCount++
	}

	// Pass 2: rows removed from the new snapshot, re-projected onto the
	// new header so the report stays rectangular.
	for _, key := range oldTable.Keys {
		if newTable.Has(key) {
			continue
		}
		row := oldTable.Rows[key]
		changes = append(changes, buildChange(DeletedRow, key, row, newTable.Header, entityCol))
		summary.DeletedRowCount++
	}

	// Pass 3: rows present in both with any non-key cell difference.
	// One Change per row carrying the new state, not a per-cell diff.
	for _, key := range newTable.Keys {
		oldRow, ok := oldTable.Rows[key]
		if !ok {
			continue
		}
		newRow := newTable.Rows[key]

		if rowChanged(oldRow, newRow, newTable.Header, oldTable.Header, keySet) {
			changes = append(changes, buildChange(CellChange, key, newRow, newTable.Header, entityCol))
			summary.ChangedRowCount++
		}
	}

	summary.TotalChanges = summary.NewRowCount + summary.DeletedRowCount + summary.ChangedRowCount
	summary.AffectedEntities = collectEntities(changes)
	return changes, summary
}

// rowChanged reports whether any non-key column differs between the two
// rows after normalization. The union of both headers is compared so a
// column dropped from the new file still counts as a change when the old
// row had a value there.
func rowChanged(oldRow, newRow table.Row, newHeader, oldHeader []string, keySet map[string]struct{}) bool {
	seen := make(map[string]struct{}, len(newHeader))

	for _, col := range newHeader {
		seen[col] = struct{}{}
		if _, isKey := keySet[col]; isKey {
			continue
		}
		if normalize.String(oldRow[col]) != normalize.String(newRow[col]) {
			return true
		}
	}

	for _, col := range oldHeader {
		if _, done := seen[col]; done {
			continue
		}
		if _, isKey := keySet[col]; isKey {
			continue
		}
		if normalize.String(oldRow[col]) != normalize.String(newRow[col]) {
			return true
		}
	}

	return false
}

// buildChange assembles one Change, mapping the source row onto the new
// header and deriving the display name and short code.
func buildChange(ct ChangeType, key string, row table.Row, newHeader []string, entityCol string) Change {
	values := make([]string, len(newHeader))
	for i, col := range newHeader {
		values[i] = row[col]
	}

	name := normalize.String(row[entityCol])
	if name == "" {
		// Fall back to the first key-column value, which survives in the
		// composite key even when the row lacks the entity column.
		if parts := normalize.KeyParts(key); len(parts) > 0 {
			name = parts[0]
		}
	}

	return Change{
		Type:       ct,
		Key:        key,
		EntityName: name,
		ShortCode:  normalize.ShortCode(name),
		Values:     values,
	}
}

// collectEntities returns the sorted, de-duplicated display names across
// all changes.
func collectEntities(changes []Change) []string {
	set := make(map[string]struct{}, len(changes))
	for _, c := range changes {
		if c.EntityName != "" {
			set[c.EntityName] = struct{}{}
		}
	}

	entities := make([]string, 0, len(set))
	for name := range set {
		entities = append(entities, name)
	}
	sort.Strings(entities)
	return entities
}
