// Package errors defines all exported error sentinels for the latincount library.
//
// This is the single source of truth for error values. Both the top-level
// latincount package and its subpackages import from here, ensuring errors.Is
// checks work across package boundaries.
package errors

import "errors"

// Dimension errors, raised before any search begins.
var (
	ErrInvalidDimension     = errors.New("latincount: invalid dimension (require 2 <= r <= n)")
	ErrUnsupportedDimension = errors.New("latincount: dimension exceeds supported ceiling")
)

// Set file errors. Any of these on load triggers a rebuild-from-scratch
// fallback in the set cache; they must never surface as wrong counts.
var (
	ErrInvalidMagic   = errors.New("latincount: invalid magic number")
	ErrInvalidVersion = errors.New("latincount: unsupported version")
	ErrTruncatedFile  = errors.New("latincount: set file is truncated")
	ErrChecksumFailed = errors.New("latincount: set file checksum verification failed")
	ErrCorruptedSet   = errors.New("latincount: set file data is corrupted")
)

// Invariant violations, fatal for the computation that hit them.
var (
	ErrBijectionViolation = errors.New("latincount: completion step did not find exactly one candidate")
)

// Store errors.
var (
	ErrStoreClosed = errors.New("latincount: result store is closed")
)
