// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// BookingCreatedEvent is published when a booking is successfully created.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	ShowDate   string `json:"show_date"`
	Showtime   string `json:"showtime"`
	Seats      uint32 `json:"seats"`
	CreatedAt  string `json:"created_at"`
}

// BookingCancelledEvent is published when a booking is soft-deleted.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	MovieID     string `json:"movie_id"`
	MovieTitle  string `json:"movie_title"`
	ShowDate    string `json:"show_date"`
	Showtime    string `json:"showtime"`
	CancelledAt string `json:"cancelled_at"`
}
