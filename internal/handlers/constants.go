package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrValidationFailed    = "Validation failed"
	ErrTokenRequired       = "access token is required"
	ErrInvalidToken        = "invalid token"
	ErrInvalidID           = "Invalid id"
	ErrTooManyRequests     = "Too many requests, please try again later"
	ErrInternalServerError = "Internal server error"
)
