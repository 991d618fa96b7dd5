// Package compute turns daily attendance records into net hours, pay and
// compliance issues, and folds them into per-employee summaries.
//
// Every function is pure: inputs are never mutated and malformed or missing
// data degrades to zero or absent results instead of errors.
package compute
