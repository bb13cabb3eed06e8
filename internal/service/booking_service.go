package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/moviebook/moviebook/internal/model"
	"github.com/moviebook/moviebook/internal/monitoring"
	"github.com/moviebook/moviebook/internal/queue"
	"github.com/moviebook/moviebook/internal/repository"
)

// BookingStore is the subset of repository.BookingRepo the booking
// service needs. The store owns the transactional discipline: Create
// must enforce the one-active-booking-per-key invariant atomically
// (pre-check plus unique constraint) and Cancel must resolve
// not-found / forbidden / already-cancelled under a row lock.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	Cancel(ctx context.Context, userID, bookingID uint64) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
}

// EventPublisher publishes booking lifecycle events to the broker.
// Implementations must be safe to call concurrently. May be nil in
// the service, which disables events.
type EventPublisher interface {
	BookingCreated(ctx context.Context, event queue.BookingCreatedEvent) error
	BookingCancelled(ctx context.Context, event queue.BookingCancelledEvent) error
}

// BookingService validates and executes booking operations. Event
// publishing is best-effort: a broker failure is logged and the
// operation still succeeds.
type BookingService struct {
	Store  BookingStore
	Events EventPublisher
}

// NewBookingService wires a BookingService. events may be nil.
func NewBookingService(store BookingStore, events EventPublisher) *BookingService {
	return &BookingService{Store: store, Events: events}
}

// CreateInput is the raw booking request after HTTP binding, before
// validation. ShowDate is the "YYYY-MM-DD" string from the client.
type CreateInput struct {
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	ShowDate   string `json:"show_date"`
	Showtime   string `json:"showtime"`
	Seats      uint32 `json:"seats"`
}

const showDateLayout = "2006-01-02"

// validate normalizes the input and returns the parsed show date.
func (in *CreateInput) validate() (time.Time, error) {
	in.MovieID = strings.TrimSpace(in.MovieID)
	in.MovieTitle = strings.TrimSpace(in.MovieTitle)
	in.Showtime = strings.TrimSpace(in.Showtime)
	if in.MovieID == "" {
		return time.Time{}, fmt.Errorf("%w: movie_id is required", ErrInvalidBooking)
	}
	if in.Showtime == "" {
		return time.Time{}, fmt.Errorf("%w: showtime is required", ErrInvalidBooking)
	}
	if in.Seats < 1 {
		return time.Time{}, fmt.Errorf("%w: seats must be at least 1", ErrInvalidBooking)
	}
	d, err := time.ParseInLocation(showDateLayout, strings.TrimSpace(in.ShowDate), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: show_date must be YYYY-MM-DD", ErrInvalidBooking)
	}
	return d, nil
}

// Create validates the input and persists a new active booking. A
// second identical request from the same user fails with
// repository.ErrDuplicateBooking; after cancelling, the same key can
// be booked again under a fresh ID.
func (s *BookingService) Create(ctx context.Context, userID uint64, in CreateInput) (model.Booking, error) {
	date, err := in.validate()
	if err != nil {
		return model.Booking{}, err
	}
	b := model.Booking{
		UserID:     userID,
		MovieID:    in.MovieID,
		MovieTitle: in.MovieTitle,
		ShowDate:   date,
		Showtime:   in.Showtime,
		Seats:      in.Seats,
	}
	if err := s.Store.Create(ctx, &b); err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			monitoring.BookingConflict()
		}
		return model.Booking{}, err
	}
	monitoring.BookingCreated()
	if s.Events != nil {
		if err := s.Events.BookingCreated(ctx, queue.BookingCreatedEvent{
			BookingID:  b.ID,
			UserID:     b.UserID,
			MovieID:    b.MovieID,
			MovieTitle: b.MovieTitle,
			ShowDate:   b.ShowDate.Format(showDateLayout),
			Showtime:   b.Showtime,
			Seats:      b.Seats,
			CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			log.Printf("booking: publish created event failed: %v", err)
		}
	}
	return b, nil
}

// Cancel soft-deletes a booking owned by userID. Cancelling an
// already-cancelled booking is an error (ErrAlreadyCancelled), not a
// no-op; the dashboard treats a second cancel attempt as a client bug
// worth surfacing.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uint64) error {
	if err := s.Store.Cancel(ctx, userID, bookingID); err != nil {
		return err
	}
	monitoring.BookingCancelled()
	if s.Events != nil {
		b, err := s.Store.GetByID(ctx, bookingID)
		if err != nil {
			log.Printf("booking: load cancelled booking %d for event failed: %v", bookingID, err)
			return nil
		}
		cancelledAt := time.Now().UTC()
		if b.CancelledAt != nil {
			cancelledAt = b.CancelledAt.UTC()
		}
		if err := s.Events.BookingCancelled(ctx, queue.BookingCancelledEvent{
			BookingID:   b.ID,
			UserID:      b.UserID,
			MovieID:     b.MovieID,
			MovieTitle:  b.MovieTitle,
			ShowDate:    b.ShowDate.Format(showDateLayout),
			Showtime:    b.Showtime,
			CancelledAt: cancelledAt.Format(time.RFC3339),
		}); err != nil {
			log.Printf("booking: publish cancelled event failed: %v", err)
		}
	}
	return nil
}

// List returns all of the user's bookings, cancelled ones included,
// newest first.
func (s *BookingService) List(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.Store.ListByUser(ctx, userID)
}
