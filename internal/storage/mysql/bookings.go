package mysql

import (
	"context"
	"database/sql"

	"travelapi/internal/domain"
)

// CreateBooking validates and inserts a booking inside one transaction.
// The listing row is locked first so two concurrent bookings for the same
// listing serialize before the overlap check runs; without the lock both
// could pass validation and commit overlapping stays.
func (r *Repo) CreateBooking(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var listing domain.Listing
	err = tx.QueryRowContext(ctx, lockListingSQL, b.ListingID).Scan(
		&listing.PricePerNight, &listing.MaxGuests, &listing.Availability)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := domain.ValidateStay(listing, b.CheckIn, b.CheckOut, b.NumGuests); err != nil {
		return err
	}

	var overlaps bool
	err = tx.QueryRowContext(ctx, overlapExistsSQL,
		b.ListingID,
		b.CheckOut.Format(dateLayout),
		b.CheckIn.Format(dateLayout),
	).Scan(&overlaps)
	if err != nil {
		return err
	}
	if overlaps {
		return domain.ErrConflict
	}

	if b.Status == "" {
		b.Status = domain.BookingPending
	}
	b.TotalPrice = domain.StayPrice(listing.PricePerNight, b.CheckIn, b.CheckOut)

	res, err := tx.ExecContext(ctx, insertBookingSQL,
		b.ListingID, b.UserID,
		b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout),
		b.NumGuests, b.TotalPrice, string(b.Status), b.SpecialRequests)
	if err != nil {
		return err
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	return tx.Commit()
}

func scanBooking(row interface{ Scan(...any) error }) (domain.Booking, error) {
	var (
		b      domain.Booking
		status string
	)
	err := row.Scan(&b.ID, &b.ListingID, &b.UserID, &b.CheckIn, &b.CheckOut,
		&b.NumGuests, &b.TotalPrice, &status, &b.SpecialRequests,
		&b.CreatedAt, &b.UpdatedAt)
	b.Status = domain.BookingStatus(status)
	return b, err
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if err == sql.ErrNoRows {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) ListBookings(ctx context.Context, userID int64, page, perPage int) ([]domain.Booking, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, countBookingsSQL, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, listBookingsSQL, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, updateBookingStatusSQL, string(status), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		if e := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)", id,
		).Scan(&exists); e == nil && !exists {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteBookingSQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
