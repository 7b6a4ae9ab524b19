// Package report serializes classified change records into one annotated
// xlsx workbook.
//
// Each change becomes one row labeled NEW ROW, DELETED ROW or CELL CHANGE
// and filled green, red or yellow respectively. Columns are auto-sized to
// content with a configurable cap. Writes are atomic: a temp file in the
// destination directory is renamed into place on success, so failures
// never leave a partial report.
package report
