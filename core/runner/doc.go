// Package runner orchestrates one reconciliation pipeline: read the old
// and new snapshots (concurrently), classify every record, write the
// annotated report, and deliver the run summary.
//
// A run is one unit of work on a worker goroutine. The caller observes it
// exclusively through the progress channel and never blocks on the
// pipeline itself. A run either fully succeeds (report written, summary
// delivered) or fully fails (error delivered, no report file produced);
// there are no retries.
package runner
