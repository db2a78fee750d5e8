// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scdb

import "fmt"

// ErrorCode identifies a kind of error the SCDB can report.
type ErrorCode int

// These constants are used to identify a specific SCDBError.
const (
	// ErrInvalidSidechain indicates a sidechain id outside the
	// registry.
	ErrInvalidSidechain ErrorCode = iota

	// ErrAdmissionRefused indicates a withdrawal bundle could not be
	// admitted: the global cap was reached, or the proposal is
	// already cached.
	ErrAdmissionRefused

	// ErrMalformedScript indicates a state script was too short, or
	// walked an index off the end of the sidechain/proposal shape
	// during decode.
	ErrMalformedScript

	// ErrDryRunFailed indicates the feasibility pass over a state
	// script rejected at least one addressed vote.
	ErrDryRunFailed

	// ErrUnknownProposal indicates ApplyVote was asked to vote on a
	// proposal id that sc is not currently tracking.
	ErrUnknownProposal

	// ErrIO indicates a failure reading or writing the coinbase
	// ring-buffer. It is never fatal: callers proceed with an empty
	// cache and log a warning.
	ErrIO
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidSidechain: "ErrInvalidSidechain",
	ErrAdmissionRefused: "ErrAdmissionRefused",
	ErrMalformedScript:  "ErrMalformedScript",
	ErrDryRunFailed:     "ErrDryRunFailed",
	ErrUnknownProposal:  "ErrUnknownProposal",
	ErrIO:               "ErrIO",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// SCDBError provides a single type for errors that can happen during
// SCDB operation.
type SCDBError struct {
	ErrorCode   ErrorCode
	Description string
	Err         error
}

// Error satisfies the error interface and prints a human-readable
// error.
func (e SCDBError) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped error.
func (e SCDBError) Unwrap() error {
	return e.Err
}

func scdbError(c ErrorCode, desc string, err error) SCDBError {
	return SCDBError{ErrorCode: c, Description: desc, Err: err}
}
