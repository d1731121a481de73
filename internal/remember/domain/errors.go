package domain

import (
	"github.com/allisson/rememberme/internal/errors"
)

// Remember-me credential errors.
var (
	// ErrCredentialNotFound indicates no live credential exists for a token.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrDuplicateToken indicates a token digest collided with an existing credential.
	// Callers must regenerate the whole pair before retrying.
	ErrDuplicateToken = errors.Wrap(errors.ErrConflict, "duplicate credential token")

	// ErrStoreUnavailable indicates the credential store could not be reached.
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "credential store unavailable")
)
