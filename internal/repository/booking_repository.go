package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/moviebook/moviebook/internal/model"
)

// BookingRepo provides CRUD operations for bookings. The store
// contract is that at most one *active* booking may exist per
// (user_id, movie_id, show_date, showtime) tuple. That invariant is
// enforced twice: a SELECT ... FOR UPDATE pre-check inside the
// insert transaction gives a friendly conflict error, and the
// uq_active_booking unique index catches any race the pre-check
// cannot see. Cancelled rows carry a NULL `active` column and are
// therefore exempt from the index, so a user can re-book a key they
// previously cancelled. All timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = "id, user_id, movie_id, movie_title, show_date, showtime, seats, created_at, cancelled_at"

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}) (model.Booking, error) {
	var b model.Booking
	var cancelled sql.NullTime
	err := row.Scan(&b.ID, &b.UserID, &b.MovieID, &b.MovieTitle,
		&b.ShowDate, &b.Showtime, &b.Seats, &b.CreatedAt, &cancelled)
	if err != nil {
		return model.Booking{}, err
	}
	if cancelled.Valid {
		t := cancelled.Time
		b.CancelledAt = &t
	}
	return b, nil
}

// Create inserts a new active booking. The duplicate check and the
// insert run in one transaction so two identical concurrent requests
// cannot both succeed: the first locks the active row (or the gap)
// with FOR UPDATE, and if both make it past the read, the unique
// index rejects the loser with a 1062 which is mapped to
// ErrDuplicateBooking. On success the booking's ID and CreatedAt are
// populated from the database.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Pre-check for an existing active booking with the same key.
	const checkQ = `SELECT id FROM bookings
	                WHERE user_id=? AND movie_id=? AND show_date=? AND showtime=? AND cancelled_at IS NULL
	                LIMIT 1 FOR UPDATE`
	var existing uint64
	err = tx.QueryRowContext(ctx, checkQ, b.UserID, b.MovieID, b.ShowDate, b.Showtime).Scan(&existing)
	switch {
	case err == nil:
		return ErrDuplicateBooking
	case err != sql.ErrNoRows:
		return err
	}

	const insQ = `INSERT INTO bookings (user_id, movie_id, movie_title, show_date, showtime, seats)
	              VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insQ, b.UserID, b.MovieID, b.MovieTitle, b.ShowDate, b.Showtime, b.Seats)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateBooking
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Query back the full row to populate timestamps and defaults.
	row := tx.QueryRowContext(ctx, "SELECT "+bookingCols+" FROM bookings WHERE id = ?", b.ID)
	created, err := scanBooking(row)
	if err != nil {
		return err
	}
	*b = created

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Cancel soft-deletes a booking on behalf of userID. The row is
// locked FOR UPDATE so a concurrent cancel of the same booking sees
// the committed cancellation flag. It returns ErrBookingNotFound
// when no booking with that ID exists, ErrForbidden when it belongs
// to another user and ErrAlreadyCancelled when the flag is already
// set. The row itself is retained for dashboard history.
func (r *BookingRepo) Cancel(ctx context.Context, userID, bookingID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var ownerID uint64
	var cancelled sql.NullTime
	err = tx.QueryRowContext(ctx,
		"SELECT user_id, cancelled_at FROM bookings WHERE id=? FOR UPDATE",
		bookingID).Scan(&ownerID, &cancelled)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	if cancelled.Valid {
		return ErrAlreadyCancelled
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE bookings SET cancelled_at=UTC_TIMESTAMP() WHERE id=?",
		bookingID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a single booking regardless of owner or state.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// ListByUser returns all bookings owned by userID, cancelled ones
// included, ordered by creation time descending (newest first) for
// dashboard display. When no bookings exist, an empty slice is
// returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE user_id=? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
