package types

import "errors"

// Sentinel errors shared across services and repositories. Handlers map
// them to HTTP statuses with errors.Is; repositories wrap them with %w at
// the point of detection.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrBadRequest      = errors.New("invalid request input")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
)
