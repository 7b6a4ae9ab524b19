// Package runs exposes dataset reconciliation over HTTP.
//
// POST /runs executes a full reconciliation (read both snapshots, diff,
// write the annotated report) and returns the run record. GET /runs and
// GET /runs/:id serve the persisted run history when a database is
// configured. Finished reports can optionally be archived to object
// storage.
package runs
