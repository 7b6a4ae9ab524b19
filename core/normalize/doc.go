// Package normalize canonicalizes cell values for comparison.
//
// Two rows belong to the same logical record iff their composite keys are
// equal, and a cell only counts as changed if its normalized form differs.
// Normalization is deliberately minimal: nil and empty are the same value,
// surrounding whitespace is insignificant, and everything else is the
// value's canonical string form. Callers wanting case-insensitive keys
// fold case before indexing.
package normalize
