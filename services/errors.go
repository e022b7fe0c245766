// services/errors.go
package services

import "errors"

// Engine error taxonomy. None of these are retried internally — the engine
// surfaces them to the transport layer, which decides on status codes and
// retry behavior.
var (
	// ErrValidation: score/timeSpent out of range or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound: unknown user, module, badge or achievement.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited: login guard denied the attempt.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidAward: negative XP delta.
	ErrInvalidAward = errors.New("invalid xp award")

	// ErrInvalidCredentials: unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEvent: completion event id was already processed.
	ErrDuplicateEvent = errors.New("duplicate completion event")
)
