// Package reconcile classifies records across two snapshots of the same
// tabular dataset.
//
// Both snapshots arrive as composite-key indexes built by the table
// package. The engine makes three passes over them: keys present only in
// the new snapshot become NEW ROW changes, keys present only in the old
// snapshot become DELETED ROW changes, and keys present in both become a
// single CELL CHANGE when any non-key column differs after normalization.
// Matching is exact string equality on normalized composite keys; there is
// no partial or fuzzy matching.
//
// The engine operates purely on validated in-memory indexes and therefore
// cannot fail: every error surface (missing key columns, unreadable files,
// unsupported shape pairings) is rejected upstream by the reader.
package reconcile
