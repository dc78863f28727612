package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, invalid calendar date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller lacks the role a trip operation
// requires. Trip-scoped lookups return this for both "no such trip" and
// "no access" so a response never reveals whether a trip exists.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrNoActiveTrip is returned by active-trip resolution when the caller has
// no accessible trip at all — neither a valid pointer nor a fallback.
// Handlers should map this to HTTP 409 Conflict.
var ErrNoActiveTrip = errors.New("no active trip")
