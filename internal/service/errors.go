package service

import "errors"

// Sentinel errors returned by the auth flows. Handlers map these onto HTTP
// statuses; anything else coming out of a flow is an unexpected failure and
// becomes a generic 500.
var (
	// ErrMissingFields signals that a required input field is absent or empty.
	ErrMissingFields = errors.New("missing required fields")

	// ErrEmailInUse signals that the email is already registered.
	ErrEmailInUse = errors.New("email already in use")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, deliberately indistinguishable so login never reveals
	// whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
