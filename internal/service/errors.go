// Package service implements the business operations behind the HTTP
// handlers: account registration, login sessions and the booking
// rules. Services depend on small store interfaces rather than
// concrete repositories so tests can inject in-memory doubles.
package service

import "errors"

// ErrWeakPassword is returned by Register when the password fails the
// minimum policy. The policy is intentionally simple: at least eight
// characters. Handlers translate this into HTTP 400.
var ErrWeakPassword = errors.New("password too weak: must be at least 8 characters")

// ErrInvalidCredentials is returned by Login for an unknown email or a
// password mismatch. The two cases are deliberately indistinguishable
// to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidBooking wraps validation failures on booking input (seat
// count, date format, empty fields). Use errors.Is to detect it; the
// wrapped message names the offending field.
var ErrInvalidBooking = errors.New("invalid booking")
