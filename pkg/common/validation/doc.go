// Package validation provides common validation utilities for the chunkflow library.
//
// These helpers are used by component constructors to reject invalid
// configuration at construction time, returning rich ValidationError values
// from pkg/common/errors rather than panicking or deferring failure to call
// time.
package validation
