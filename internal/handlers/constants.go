package handlers

const (
	RequestIDHeader = "X-Request-ID"

	ErrInvalidJSON           = "Invalid JSON body"
	ErrInvalidID             = "Invalid ID"
	ErrUnauthorized          = "Unauthorized"
	ErrTooManyRequests       = "Too many requests"
	ErrNotFound              = "Not found"
	ErrInternalServerError   = "Internal server error"
	ErrMissingCompletionArgs = "Kid ID, Chore ID, and Assignment ID are required"
	ErrMissingUncheckArgs    = "Kid ID and Assignment ID are required"
)
