package model

import "time"

// Booking records a user's reservation of seats for a movie showing
// on a particular date. The movie ID comes from the external
// metadata provider and is treated as an opaque key. A booking has
// exactly two states: active (CancelledAt nil) and cancelled.
// Cancellation is a soft delete; the row is kept so the dashboard
// can show booking history.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the booking.
//  MovieID     – external movie identifier (opaque).
//  MovieTitle  – title captured at booking time for display.
//  ShowDate    – calendar date of the screening (time part zero, UTC).
//  Showtime    – screening slot, e.g. "19:00".
//  Seats       – number of seats reserved (>= 1).
//  CreatedAt   – creation timestamp.
//  CancelledAt – when the booking was cancelled (nil while active).
type Booking struct {
    ID          uint64     `json:"id"`           // bookings.id
    UserID      uint64     `json:"user_id"`      // bookings.user_id
    MovieID     string     `json:"movie_id"`     // bookings.movie_id
    MovieTitle  string     `json:"movie_title"`  // bookings.movie_title
    ShowDate    time.Time  `json:"show_date"`    // bookings.show_date
    Showtime    string     `json:"showtime"`     // bookings.showtime
    Seats       uint32     `json:"seats"`        // bookings.seats
    CreatedAt   time.Time  `json:"created_at"`   // bookings.created_at
    CancelledAt *time.Time `json:"cancelled_at"` // bookings.cancelled_at (nullable)
}

// Active reports whether the booking still counts toward the
// one-active-booking-per-key constraint.
func (b Booking) Active() bool { return b.CancelledAt == nil }
