// Package repository implements the persistence layer on top of
// MySQL. Sentinel errors defined here let services and handlers
// distinguish expected business failures (duplicate booking,
// ownership violation) from storage faults without inspecting
// driver-specific error strings themselves.
package repository

import "errors"

// ErrEmailExists is returned when registering with an email that is
// already taken. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateBooking is returned when the user already holds an
// active booking for the same (movie, date, showtime) key. It is
// produced both by the in-transaction pre-check and by the unique
// index on bookings when two identical requests race.
var ErrDuplicateBooking = errors.New("duplicate booking")

// ErrBookingNotFound is returned when no booking with the requested
// ID exists.
var ErrBookingNotFound = errors.New("booking not found")

// ErrForbidden is returned when the caller attempts an operation on
// a booking owned by a different user. Handlers should translate
// this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyCancelled is returned when cancelling a booking whose
// cancellation flag is already set.
var ErrAlreadyCancelled = errors.New("booking already cancelled")
