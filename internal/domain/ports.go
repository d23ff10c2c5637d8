package domain

import "context"

type ListingRepository interface {
	CreateListing(ctx context.Context, l *Listing) error
	GetListing(ctx context.Context, id int64) (ListingView, error)
	ListListings(ctx context.Context, q ListingsQuery) (ListingsPage, error)
	UpdateListing(ctx context.Context, l *Listing) error
	DeleteListing(ctx context.Context, id int64) error
}

type BookingRepository interface {
	// CreateBooking runs in a transaction: it locks the listing row,
	// re-checks the overlap invariant against concurrent writers, derives
	// the total price and inserts. ErrConflict on overlap.
	CreateBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id int64) (Booking, error)
	ListBookings(ctx context.Context, userID int64, page, perPage int) ([]Booking, int, error)
	UpdateBookingStatus(ctx context.Context, id int64, status BookingStatus) error
	DeleteBooking(ctx context.Context, id int64) error
}

type ReviewRepository interface {
	// CreateReview inserts and maps the (listing_id, user_id) unique key
	// violation to ErrConflict.
	CreateReview(ctx context.Context, r *Review) error
	GetReview(ctx context.Context, id int64) (Review, error)
	ListReviews(ctx context.Context, listingID int64, page, perPage int) (ReviewsPage, error)
	UpdateReview(ctx context.Context, r *Review) error
	DeleteReview(ctx context.Context, id int64) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id int64) (User, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *Payment) error
	GetPaymentByRef(ctx context.Context, ref string) (Payment, error)
	UpdatePaymentStatus(ctx context.Context, ref string, status PaymentStatus, gatewayTxRef string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// PaymentGateway abstracts the Chapa-style checkout API.
type PaymentGateway interface {
	Initialize(ctx context.Context, p Payment, email string) (checkoutURL string, err error)
	Verify(ctx context.Context, txRef string) (PaymentStatus, string, error)
}
