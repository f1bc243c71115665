// Package errors provides error handling for psam.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Wrap with context
//	if err := corpus.Read(r); err != nil {
//	    return errors.Wrap(err, "failed to read corpus")
//	}
//
//	// Signal a precondition violation
//	return errors.Wrapf(errors.ErrChunkCount, "%d chunks over %d items", n, l)
//
//	// Add hints for users
//	return errors.WithHint(err, "use --crossval 0 for leave-one-out")
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
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
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
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors shared across psam.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrEmptyCorpus indicates no instances were available to evaluate
	ErrEmptyCorpus = New("empty corpus")

	// ErrEmptyTrainingSet indicates a learner was asked to train on nothing
	ErrEmptyTrainingSet = New("empty training set")

	// ErrFeatureCount indicates instances with differing feature vector lengths
	ErrFeatureCount = New("feature count mismatch")

	// ErrFeatureValue indicates a feature value outside {0,1}
	ErrFeatureValue = New("feature value out of range")

	// ErrInvalidLabel indicates a label outside {0,1}
	ErrInvalidLabel = New("invalid label")

	// ErrChunkCount indicates a partition request that cannot yield non-empty chunks
	ErrChunkCount = New("invalid chunk count")

	// ErrInvalidParameter indicates a learner parameter outside its domain
	ErrInvalidParameter = New("invalid parameter")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsInputError reports whether err is a precondition violation on malformed input.
// These are never retried; callers report them and stop.
func IsInputError(err error) bool {
	return err != nil && IsAny(err,
		ErrEmptyCorpus,
		ErrEmptyTrainingSet,
		ErrFeatureCount,
		ErrFeatureValue,
		ErrInvalidLabel,
		ErrChunkCount,
		ErrInvalidParameter,
	)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
