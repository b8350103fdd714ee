// Package filesystem provides filesystem implementations for postgen.
//
// This package contains implementations of the types.FS interface:
// the OS filesystem used at runtime and an afero-backed one used by tests.
package filesystem
