package apperrors

import "errors"

// Sentinel errors for the service layer. Handlers translate these into an
// HTTP status plus a {success:false, message} envelope with errors.Is.
var (
	// ErrNotFound indicates an unknown account or ticket.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated indicates missing or invalid credentials.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnauthorized indicates an authenticated caller without the required role.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidArgument indicates a request value outside its valid range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientBalance indicates a purchase the account cannot afford.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrConflict indicates an optimistic-concurrency collision. The ticket
	// service retries these internally before surfacing one to the caller.
	ErrConflict = errors.New("conflict")

	// ErrNoActiveDraw indicates a settlement request with no open draw.
	ErrNoActiveDraw = errors.New("no active draw")
)
