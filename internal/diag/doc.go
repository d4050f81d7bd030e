// Package diag defines the diagnostic model shared by every analysis pass.
//
// A Diagnostic is plain data: severity, a numeric Code with a stable short
// identifier (LEX/SYN/SEM/IO ranges), a message, the primary span and optional
// notes pointing at related spans ("previous definition here").
//
// Passes never abort on user errors. They emit through a Reporter (usually a
// BagReporter) and keep going, so one compilation attempt surfaces as many
// independent problems as possible. The pass manager merges per-pass bags into a
// single aggregate and decides on code generation by HasErrors.
//
// Faults in the pipeline itself are not diagnostics; see package pass.
package diag
