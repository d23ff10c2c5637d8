package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"travelapi/internal/domain"
)

const dateLayout = "2006-01-02"

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// isDuplicate reports a MySQL unique-key violation (error 1062). Races that
// slip past application-level checks land here and surface as ErrConflict.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func valIntPtr(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func valInt64Ptr(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullToIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// Reset deletes every row in foreign-key dependency order. The seeder uses
// it for its clear flag; nothing in the API path calls it.
func (r *Repo) Reset(ctx context.Context) error {
	for _, q := range []string{
		"DELETE FROM payments",
		"DELETE FROM reviews",
		"DELETE FROM bookings",
		"DELETE FROM listings",
		"DELETE FROM users",
	} {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

func (r *Repo) CreateUser(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Username, u.Email, u.FirstName, u.LastName)
	if err != nil {
		if isDuplicate(err) {
			return domain.ErrConflict
		}
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, getUserSQL, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}

// -----------------------------------------------------------------------------
// Listings
// -----------------------------------------------------------------------------

func (r *Repo) CreateListing(ctx context.Context, l *domain.Listing) error {
	amen, _ := json.Marshal(l.Amenities)
	res, err := r.db.ExecContext(ctx, insertListingSQL,
		l.Title, l.Description, l.Location, l.PricePerNight,
		l.MaxGuests, l.Bedrooms, l.Bathrooms, string(amen),
		l.Availability, l.HostID, l.IsActive)
	if err != nil {
		return err
	}
	l.ID, err = res.LastInsertId()
	return err
}

func scanListingView(row interface{ Scan(...any) error }) (domain.ListingView, error) {
	var (
		lv            domain.ListingView
		amenitiesJSON []byte
	)
	err := row.Scan(
		&lv.ID, &lv.Title, &lv.Description, &lv.Location, &lv.PricePerNight,
		&lv.MaxGuests, &lv.Bedrooms, &lv.Bathrooms, &amenitiesJSON, &lv.Availability,
		&lv.HostID, &lv.IsActive, &lv.CreatedAt, &lv.UpdatedAt,
		&lv.AverageRating, &lv.ReviewsCount)
	if err != nil {
		return domain.ListingView{}, err
	}
	_ = json.Unmarshal(amenitiesJSON, &lv.Amenities)
	return lv, nil
}

func (r *Repo) GetListing(ctx context.Context, id int64) (domain.ListingView, error) {
	lv, err := scanListingView(r.db.QueryRowContext(ctx, getListingSQL, id))
	if err == sql.ErrNoRows {
		return domain.ListingView{}, domain.ErrNotFound
	}
	return lv, err
}

// listingsFilter builds the WHERE clause shared by the page and count
// queries for ListListings.
func listingsFilter(q domain.ListingsQuery) (string, []any) {
	where := []string{"l.is_active = 1"}
	var args []any
	if q.Location != nil {
		where = append(where, "l.location LIKE ?")
		args = append(args, "%"+*q.Location+"%")
	}
	if q.MinPrice != nil {
		where = append(where, "l.price_per_night >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		where = append(where, "l.price_per_night <= ?")
		args = append(args, *q.MaxPrice)
	}
	if q.CheckIn != nil && q.CheckOut != nil {
		// exclude listings with a live booking overlapping the window
		where = append(where, `l.id NOT IN (
  SELECT listing_id FROM bookings
  WHERE status IN ('pending', 'confirmed')
    AND check_in_date < ? AND ? < check_out_date)`)
		args = append(args, q.CheckOut.Format(dateLayout), q.CheckIn.Format(dateLayout))
	}
	return strings.Join(where, " AND "), args
}

func (r *Repo) ListListings(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	filter, args := listingsFilter(q)

	var total int
	countQ := "SELECT COUNT(*) FROM listings l WHERE " + filter
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return domain.ListingsPage{}, err
	}

	pageQ := fmt.Sprintf(`
SELECT
  l.id, l.title, l.description, l.location, l.price_per_night,
  l.max_guests, l.bedrooms, l.bathrooms, l.amenities, l.availability,
  l.host_id, l.is_active, l.created_at, l.updated_at,
  COALESCE(ROUND(AVG(r.rating), 1), 0) AS average_rating,
  COUNT(r.id) AS reviews_count
FROM listings l
LEFT JOIN reviews r ON r.listing_id = l.id
WHERE %s
GROUP BY l.id
ORDER BY l.created_at DESC, l.id DESC
LIMIT ? OFFSET ?`, filter)
	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)

	rows, err := r.db.QueryContext(ctx, pageQ, args...)
	if err != nil {
		return domain.ListingsPage{}, err
	}
	defer rows.Close()

	var items []domain.ListingView
	for rows.Next() {
		lv, err := scanListingView(rows)
		if err != nil {
			return domain.ListingsPage{}, err
		}
		items = append(items, lv)
	}
	if err := rows.Err(); err != nil {
		return domain.ListingsPage{}, err
	}
	return domain.ListingsPage{Items: items, Total: total, Page: q.Page, PerPage: q.PerPage}, nil
}

func (r *Repo) UpdateListing(ctx context.Context, l *domain.Listing) error {
	amen, _ := json.Marshal(l.Amenities)
	res, err := r.db.ExecContext(ctx, updateListingSQL,
		l.Title, l.Description, l.Location, l.PricePerNight,
		l.MaxGuests, l.Bedrooms, l.Bathrooms, string(amen),
		l.Availability, l.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		// RowsAffected is 0 both for missing rows and no-op updates; treat
		// a vanished listing as not found only when it really is gone.
		var exists bool
		if e := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM listings WHERE id = ? AND is_active = 1)", l.ID,
		).Scan(&exists); e == nil && !exists {
			return domain.ErrNotFound
		}
	}
	return err
}

func (r *Repo) DeleteListing(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteListingSQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
