package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviebook/moviebook/internal/model"
	"github.com/moviebook/moviebook/internal/queue"
	"github.com/moviebook/moviebook/internal/repository"
)

// fakeBookingStore mirrors the repository's contract in memory: at
// most one active booking per (user, movie, date, showtime), cancel
// resolves ownership and state under the same rules, list is newest
// first. CreatedAt uses a strictly increasing clock so ordering is
// deterministic.
type fakeBookingStore struct {
	mu     sync.Mutex
	nextID uint64
	clock  time.Time
	byID   map[uint64]model.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{
		nextID: 1,
		clock:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		byID:   make(map[uint64]model.Booking),
	}
}

func (s *fakeBookingStore) Create(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.UserID == b.UserID && existing.MovieID == b.MovieID &&
			existing.ShowDate.Equal(b.ShowDate) && existing.Showtime == b.Showtime &&
			existing.CancelledAt == nil {
			return repository.ErrDuplicateBooking
		}
	}
	s.clock = s.clock.Add(time.Second)
	b.ID = s.nextID
	s.nextID++
	b.CreatedAt = s.clock
	s.byID[b.ID] = *b
	return nil
}

func (s *fakeBookingStore) Cancel(ctx context.Context, userID, bookingID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[bookingID]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if b.UserID != userID {
		return repository.ErrForbidden
	}
	if b.CancelledAt != nil {
		return repository.ErrAlreadyCancelled
	}
	s.clock = s.clock.Add(time.Second)
	t := s.clock
	b.CancelledAt = &t
	s.byID[bookingID] = b
	return nil
}

func (s *fakeBookingStore) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return model.Booking{}, repository.ErrBookingNotFound
	}
	return b, nil
}

func (s *fakeBookingStore) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.byID {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// recordingPublisher captures published events instead of touching a broker.
type recordingPublisher struct {
	mu        sync.Mutex
	created   []queue.BookingCreatedEvent
	cancelled []queue.BookingCancelledEvent
}

func (p *recordingPublisher) BookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, ev)
	return nil
}

func (p *recordingPublisher) BookingCancelled(ctx context.Context, ev queue.BookingCancelledEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, ev)
	return nil
}

func validInput() CreateInput {
	return CreateInput{
		MovieID:    "42",
		MovieTitle: "Blade Runner",
		ShowDate:   "2024-07-01",
		Showtime:   "19:00",
		Seats:      2,
	}
}

func TestCreateBooking(t *testing.T) {
	store := newFakeBookingStore()
	events := &recordingPublisher{}
	svc := NewBookingService(store, events)
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, validInput())
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, uint64(1), b.UserID)
	assert.Equal(t, "42", b.MovieID)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), b.ShowDate)
	assert.True(t, b.Active())

	require.Len(t, events.created, 1)
	assert.Equal(t, b.ID, events.created[0].BookingID)
	assert.Equal(t, "2024-07-01", events.created[0].ShowDate)
}

func TestCreateBookingValidation(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(), nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"zero seats", func(in *CreateInput) { in.Seats = 0 }},
		{"empty movie id", func(in *CreateInput) { in.MovieID = "  " }},
		{"empty showtime", func(in *CreateInput) { in.Showtime = "" }},
		{"bad date", func(in *CreateInput) { in.ShowDate = "01/07/2024" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, 1, in)
			assert.ErrorIs(t, err, ErrInvalidBooking)
		})
	}
}

func TestDuplicateBookingRejected(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(), nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, validInput())
	require.NoError(t, err)

	// The identical request fails while the first booking is active.
	_, err = svc.Create(ctx, 1, validInput())
	assert.ErrorIs(t, err, repository.ErrDuplicateBooking)

	// A different user may book the same key.
	_, err = svc.Create(ctx, 2, validInput())
	require.NoError(t, err)

	// So may the same user for a different showtime.
	in := validInput()
	in.Showtime = "21:30"
	_, err = svc.Create(ctx, 1, in)
	require.NoError(t, err)

	// After cancelling, the original key is bookable again under a new ID.
	require.NoError(t, svc.Cancel(ctx, 1, first.ID))
	rebooked, err := svc.Create(ctx, 1, validInput())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, rebooked.ID)
}

func TestCancelBooking(t *testing.T) {
	store := newFakeBookingStore()
	events := &recordingPublisher{}
	svc := NewBookingService(store, events)
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, validInput())
	require.NoError(t, err)

	err = svc.Cancel(ctx, 1, 9999)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)

	// A different user cannot cancel and the flag stays unchanged.
	err = svc.Cancel(ctx, 2, b.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	got, err := store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Active())

	require.NoError(t, svc.Cancel(ctx, 1, b.ID))
	got, err = store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.Active())
	require.Len(t, events.cancelled, 1)
	assert.Equal(t, b.ID, events.cancelled[0].BookingID)

	// Cancelling twice is an explicit error, not a silent no-op.
	err = svc.Cancel(ctx, 1, b.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyCancelled)
}

func TestListBookings(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(), nil)
	ctx := context.Background()

	in1 := validInput()
	first, err := svc.Create(ctx, 1, in1)
	require.NoError(t, err)

	in2 := validInput()
	in2.Showtime = "21:30"
	second, err := svc.Create(ctx, 1, in2)
	require.NoError(t, err)

	// Another user's booking must never leak into the list.
	_, err = svc.Create(ctx, 2, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, 1, first.ID))

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first, cancelled bookings included.
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.False(t, list[1].Active())
	for _, b := range list {
		assert.Equal(t, uint64(1), b.UserID)
	}
}

func TestBookCancelRebookScenario(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(), nil)
	ctx := context.Background()

	in := CreateInput{MovieID: "42", MovieTitle: "Movie 42", ShowDate: "2024-07-01", Showtime: "19:00", Seats: 2}

	b, err := svc.Create(ctx, 7, in)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 7, in)
	require.ErrorIs(t, err, repository.ErrDuplicateBooking)

	require.NoError(t, svc.Cancel(ctx, 7, b.ID))

	again, err := svc.Create(ctx, 7, in)
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, again.ID)
}
