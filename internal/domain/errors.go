package domain

import "errors"

// Failure taxonomy for the workflow engine. Services return these wrapped
// with context; the API layer maps them to status codes with errors.Is.
var (
	ErrForbidden         = errors.New("operation not allowed for this role or actor")
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidInterval   = errors.New("end time precedes start time")
	ErrAccessDenied      = errors.New("company has not ordered this tool")
	ErrToolExhausted     = errors.New("tool has no remaining life")
	ErrToolUnavailable   = errors.New("tool is not available")
	ErrNotCurrentUser    = errors.New("tool is not in use by this operator")
	ErrIllegalTransition = errors.New("order status transition not allowed")
	ErrConflict          = errors.New("entity was modified concurrently")
)
