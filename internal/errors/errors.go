// Package errors re-exports github.com/cockroachdb/errors for labor-odds and
// declares the sentinel errors shared across loaders, writers and config.
//
// Wrap a sentinel to add context while keeping it matchable:
//
//	return errors.Wrapf(errors.ErrMalformedRecord, "line %d: offset %q", line, raw)
//
//	if errors.Is(err, errors.ErrMalformedRecord) { ... }
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

var (
	// ErrMalformedRecord indicates a source row whose date, offset or
	// percentage field cannot be parsed into its declared type.
	ErrMalformedRecord = New("malformed record")

	// ErrUnknownFormat indicates a report format with no registered writer.
	ErrUnknownFormat = New("unknown report format")

	// ErrInvalidConfig indicates a configuration value that cannot be used.
	ErrInvalidConfig = New("invalid configuration")

	// ErrSourceUnavailable indicates an input source could not be opened or fetched.
	ErrSourceUnavailable = New("source unavailable")
)

// Malformed wraps ErrMalformedRecord with the source line and the offending field.
func Malformed(line int, field, value string, cause error) error {
	err := Wrapf(ErrMalformedRecord, "line %d: invalid %s %q", line, field, value)
	if cause != nil {
		err = WithSecondaryError(err, cause)
	}
	return err
}
