// Package common defines shared sentinel errors and small helpers used
// across the vault packages. Callers should use errors.Is to match the
// sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Defensive input rejection. Repositories assume the form layer has
	// validated shapes but still refuse obviously broken identifiers.
	ErrorInvalidID    = errors.New("invalid identifier")
	ErrorInvalidInput = errors.New("invalid input")

	// Authorization errors.
	ErrorNotOwner = errors.New("acting user does not own the secret")

	// Crypto errors (key material unavailable or malformed).
	ErrorInvalidKey = errors.New("invalid vault key")
)
