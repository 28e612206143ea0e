// Package errors provides error handling for crepr.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := load(); err != nil {
//	    return errors.Wrap(err, "failed to load module")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run crepr remove --diff to inspect the file")
//
//	// Check errors
//	if errors.Is(err, errors.ErrSyntax) {
//	    // report and continue with the next file
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// Load failures. A file that fails to load is reported and skipped; the
// rest of the batch still runs.
var (
	// ErrFileNotFound indicates the source path does not exist
	ErrFileNotFound = New("file not found")

	// ErrNotImportable indicates the path exists but is not a readable Python source
	// (a directory, a permission problem, or bytes that are not UTF-8)
	ErrNotImportable = New("cannot import module")

	// ErrSyntax indicates the source could not be parsed as Python
	ErrSyntax = New("syntax error")
)

// Patch failures. These stop the affected file; the file is left untouched.
var (
	// ErrIntegrity indicates a line scheduled for removal no longer matches
	// the text that was recorded for it
	ErrIntegrity = New("integrity check failed")

	// ErrSourceChanged indicates the file changed between analysis and write
	ErrSourceChanged = New("source changed since it was loaded")
)

// IsLoadError reports whether err is one of the load failure kinds.
func IsLoadError(err error) bool {
	return err != nil && IsAny(err, ErrFileNotFound, ErrNotImportable, ErrSyntax)
}

// IsIntegrityError checks if an error is or wraps ErrIntegrity
func IsIntegrityError(err error) bool {
	return err != nil && Is(err, ErrIntegrity)
}

// NewLoadError builds a load failure of the given kind for path.
// The underlying cause, if any, is kept as a secondary error so it shows up
// in verbose output without changing the user-facing message.
func NewLoadError(kind error, path string, cause error) error {
	err := Wrapf(kind, "%s", path)
	if cause != nil {
		err = WithSecondaryError(err, cause)
	}
	return err
}
