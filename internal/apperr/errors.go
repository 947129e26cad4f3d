// Package apperr defines the domain error values shared across the service
// layers. Handlers translate these into HTTP status codes at the boundary;
// everything below the boundary passes them around with errors.Is.
package apperr

import "errors"

var (
	// ErrDuplicateUsername is returned when registering a username that is
	// already taken.
	ErrDuplicateUsername = errors.New("username is already taken")

	// ErrDuplicateEmail is returned when registering an email that is
	// already in use.
	ErrDuplicateEmail = errors.New("email is already in use")

	// ErrInvalidCredentials covers both an unknown username/email and a
	// wrong password. The two cases are deliberately indistinguishable to
	// the caller to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid username/email or password")

	// ErrAccountDisabled is returned when credentials are correct but the
	// account has been deactivated.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrAccountLocked is returned when the account has been locked.
	ErrAccountLocked = errors.New("account is locked")

	// ErrUserNotFound is returned by profile lookups for a missing user.
	ErrUserNotFound = errors.New("user not found")

	// ErrTokenTampered is returned for tokens whose signature does not
	// verify, or that are structurally malformed.
	ErrTokenTampered = errors.New("token signature is invalid")

	// ErrTokenExpired is returned for well-signed tokens past their expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrInternal masks unexpected collaborator failures. Details are
	// logged server-side and never returned to the client.
	ErrInternal = errors.New("internal error")
)
