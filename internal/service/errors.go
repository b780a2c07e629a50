package service

import "errors"

// Error taxonomy surfaced to the API layer. Handlers map these onto HTTP
// statuses; anything unrecognized is a store failure (500).
var (
	// -- Validation & Input --
	ErrMissingFields = errors.New("all fields are required")
	ErrEmptyOrder    = errors.New("order items are required")
	ErrBadItem       = errors.New("invalid order item")
	ErrBadPayment    = errors.New("invalid payment details")

	// -- Authentication --
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("access token required")
	ErrInvalidToken       = errors.New("invalid token")

	// -- Resource State --
	ErrDuplicateUser   = errors.New("username or email already exists")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)
