// Package progress carries status notifications from a pipeline worker to
// its caller.
//
// The channel is single-producer, single-consumer. Status messages are
// advisory and never block the worker; the run always ends with exactly
// one terminal message, success with a RunSummary or failure with an
// error, after which the channel is closed. Success and failure are
// mutually exclusive for a run.
package progress
