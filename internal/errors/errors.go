// Package errors holds the domain error kinds shared by every module. Use cases wrap
// one of the sentinels below and transports translate the kind, never the message.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a clash with existing data, such as a taken email.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or rejected credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is known but lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a backing store could not be reached.
	ErrUnavailable = errors.New("unavailable")
)

// kinds is ordered by precedence: an error joining several kinds reports the first.
var kinds = []struct {
	err  error
	code string
}{
	{ErrUnavailable, "service_unavailable"},
	{ErrUnauthorized, "unauthorized"},
	{ErrForbidden, "forbidden"},
	{ErrNotFound, "not_found"},
	{ErrConflict, "conflict"},
	{ErrInvalidInput, "invalid_input"},
}

// CodeInternal is returned by Code for errors carrying no domain kind.
const CodeInternal = "internal_error"

// Code returns a stable machine-readable code for the kind wrapped by err, or
// CodeInternal when err wraps none of the sentinels. Code(nil) is "".
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, kind := range kinds {
		if errors.Is(err, kind.err) {
			return kind.code
		}
	}
	return CodeInternal
}

// Wrap adds context to err while keeping it matchable with Is.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap but formats the context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
