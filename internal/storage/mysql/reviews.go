package mysql

import (
	"context"
	"database/sql"

	"travelapi/internal/domain"
)

func (r *Repo) CreateReview(ctx context.Context, rv *domain.Review) error {
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ListingID, rv.UserID, valInt64Ptr(rv.BookingID), rv.Rating, rv.Comment,
		valIntPtr(rv.Cleanliness), valIntPtr(rv.Accuracy),
		valIntPtr(rv.Location), valIntPtr(rv.Value))
	if err != nil {
		// uq_reviews_listing_user: one review per (user, listing)
		if isDuplicate(err) {
			return domain.ErrConflict
		}
		return err
	}
	rv.ID, err = res.LastInsertId()
	return err
}

func scanReview(row interface{ Scan(...any) error }) (domain.Review, error) {
	var (
		rv                          domain.Review
		bookingID                   sql.NullInt64
		clean, accuracy, loc, value sql.NullInt64
	)
	err := row.Scan(&rv.ID, &rv.ListingID, &rv.UserID, &bookingID, &rv.Rating,
		&rv.Comment, &clean, &accuracy, &loc, &value, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return domain.Review{}, err
	}
	if bookingID.Valid {
		id := bookingID.Int64
		rv.BookingID = &id
	}
	rv.Cleanliness = nullToIntPtr(clean)
	rv.Accuracy = nullToIntPtr(accuracy)
	rv.Location = nullToIntPtr(loc)
	rv.Value = nullToIntPtr(value)
	return rv, nil
}

func (r *Repo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if err == sql.ErrNoRows {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) ListReviews(ctx context.Context, listingID int64, page, perPage int) (domain.ReviewsPage, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, countReviewsSQL, listingID).Scan(&total); err != nil {
		return domain.ReviewsPage{}, err
	}

	rows, err := r.db.QueryContext(ctx, listReviewsSQL, listingID, perPage, (page-1)*perPage)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	var items []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return domain.ReviewsPage{}, err
		}
		items = append(items, rv)
	}
	if err := rows.Err(); err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

func (r *Repo) UpdateReview(ctx context.Context, rv *domain.Review) error {
	res, err := r.db.ExecContext(ctx, updateReviewSQL,
		rv.Rating, rv.Comment,
		valIntPtr(rv.Cleanliness), valIntPtr(rv.Accuracy),
		valIntPtr(rv.Location), valIntPtr(rv.Value), rv.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		if e := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM reviews WHERE id = ?)", rv.ID,
		).Scan(&exists); e == nil && !exists {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *Repo) DeleteReview(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteReviewSQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
