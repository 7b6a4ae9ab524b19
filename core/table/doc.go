// Package table streams tabular source files into composite-key indexes.
//
// A source is either delimited text (CSV, header row first) or a
// spreadsheet workbook (optionally naming a sheet). Both shapes reduce to
// the same Indexed representation: the header in file order plus a map
// from composite key to row, so downstream components never care how the
// file was physically read.
//
// Rows are consumed in a single pass; only the index is held in memory.
// Duplicate composite keys within one file follow last-row-wins and are
// counted so callers can surface the data-quality condition.
package table
