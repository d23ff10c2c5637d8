package app_test

import (
	"context"
	"time"

	"travelapi/internal/domain"
)

// ---- in-memory fakes shared by the service tests ----

type fakeStore struct {
	listings map[int64]domain.ListingView
	bookings map[int64]domain.Booking
	reviews  map[int64]domain.Review
	users    map[int64]domain.User
	payments map[string]domain.Payment

	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		listings: map[int64]domain.ListingView{},
		bookings: map[int64]domain.Booking{},
		reviews:  map[int64]domain.Review{},
		users:    map[int64]domain.User{},
		payments: map[string]domain.Payment{},
	}
}

func (f *fakeStore) id() int64 { f.nextID++; return f.nextID }

// ListingRepository

func (f *fakeStore) CreateListing(ctx context.Context, l *domain.Listing) error {
	l.ID = f.id()
	f.listings[l.ID] = domain.ListingView{Listing: *l}
	return nil
}

func (f *fakeStore) GetListing(ctx context.Context, id int64) (domain.ListingView, error) {
	lv, ok := f.listings[id]
	if !ok || !lv.IsActive {
		return domain.ListingView{}, domain.ErrNotFound
	}
	ratings := []int{}
	for _, rv := range f.reviews {
		if rv.ListingID == id {
			ratings = append(ratings, rv.Rating)
		}
	}
	lv.AverageRating = domain.AverageRating(ratings)
	lv.ReviewsCount = len(ratings)
	return lv, nil
}

func (f *fakeStore) ListListings(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	var items []domain.ListingView
	for id, lv := range f.listings {
		if !lv.IsActive {
			continue
		}
		if q.CheckIn != nil && q.CheckOut != nil && f.hasLiveOverlap(id, *q.CheckIn, *q.CheckOut) {
			continue
		}
		items = append(items, lv)
	}
	return domain.ListingsPage{Items: items, Total: len(items), Page: q.Page, PerPage: q.PerPage}, nil
}

func (f *fakeStore) UpdateListing(ctx context.Context, l *domain.Listing) error {
	lv, ok := f.listings[l.ID]
	if !ok || !lv.IsActive {
		return domain.ErrNotFound
	}
	f.listings[l.ID] = domain.ListingView{Listing: *l}
	return nil
}

func (f *fakeStore) DeleteListing(ctx context.Context, id int64) error {
	lv, ok := f.listings[id]
	if !ok || !lv.IsActive {
		return domain.ErrNotFound
	}
	lv.IsActive = false
	f.listings[id] = lv
	return nil
}

// BookingRepository

func (f *fakeStore) hasLiveOverlap(listingID int64, in, out time.Time) bool {
	for _, b := range f.bookings {
		if b.ListingID != listingID || b.Status == domain.BookingCancelled {
			continue
		}
		if domain.DatesOverlap(b.CheckIn, b.CheckOut, in, out) {
			return true
		}
	}
	return false
}

func (f *fakeStore) CreateBooking(ctx context.Context, b *domain.Booking) error {
	lv, ok := f.listings[b.ListingID]
	if !ok || !lv.IsActive {
		return domain.ErrNotFound
	}
	if err := domain.ValidateStay(lv.Listing, b.CheckIn, b.CheckOut, b.NumGuests); err != nil {
		return err
	}
	if f.hasLiveOverlap(b.ListingID, b.CheckIn, b.CheckOut) {
		return domain.ErrConflict
	}
	b.ID = f.id()
	b.TotalPrice = domain.StayPrice(lv.PricePerNight, b.CheckIn, b.CheckOut)
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeStore) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) ListBookings(ctx context.Context, userID int64, page, perPage int) ([]domain.Booking, int, error) {
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	f.bookings[id] = b
	return nil
}

func (f *fakeStore) DeleteBooking(ctx context.Context, id int64) error {
	if _, ok := f.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

// ReviewRepository

func (f *fakeStore) CreateReview(ctx context.Context, r *domain.Review) error {
	for _, existing := range f.reviews {
		if existing.ListingID == r.ListingID && existing.UserID == r.UserID {
			return domain.ErrConflict
		}
	}
	r.ID = f.id()
	f.reviews[r.ID] = *r
	return nil
}

func (f *fakeStore) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	rv, ok := f.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, nil
}

func (f *fakeStore) ListReviews(ctx context.Context, listingID int64, page, perPage int) (domain.ReviewsPage, error) {
	var items []domain.Review
	for _, rv := range f.reviews {
		if rv.ListingID == listingID {
			items = append(items, rv)
		}
	}
	return domain.ReviewsPage{Items: items, Total: len(items), Page: page, PerPage: perPage}, nil
}

func (f *fakeStore) UpdateReview(ctx context.Context, r *domain.Review) error {
	old, ok := f.reviews[r.ID]
	if !ok {
		return domain.ErrNotFound
	}
	r.ListingID, r.UserID = old.ListingID, old.UserID
	f.reviews[r.ID] = *r
	return nil
}

func (f *fakeStore) DeleteReview(ctx context.Context, id int64) error {
	if _, ok := f.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

// UserRepository

func (f *fakeStore) CreateUser(ctx context.Context, u *domain.User) error {
	u.ID = f.id()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

// PaymentRepository

func (f *fakeStore) CreatePayment(ctx context.Context, p *domain.Payment) error {
	for _, existing := range f.payments {
		if existing.BookingID == p.BookingID {
			return domain.ErrConflict
		}
	}
	p.ID = f.id()
	f.payments[p.PaymentRef] = *p
	return nil
}

func (f *fakeStore) GetPaymentByRef(ctx context.Context, ref string) (domain.Payment, error) {
	p, ok := f.payments[ref]
	if !ok {
		return domain.Payment{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) UpdatePaymentStatus(ctx context.Context, ref string, status domain.PaymentStatus, gatewayTxRef string) error {
	p, ok := f.payments[ref]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.GatewayTxRef = gatewayTxRef
	f.payments[ref] = p
	return nil
}

// ---- fake cache (same shape as the redis adapter) ----

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.ListingView:
		*d = v.(domain.ListingView)
	case *domain.ReviewsPage:
		*d = v.(domain.ReviewsPage)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// ---- fake payment gateway ----

type fakeGateway struct {
	verifyStatus domain.PaymentStatus
	initErr      error
}

func (g *fakeGateway) Initialize(ctx context.Context, p domain.Payment, email string) (string, error) {
	if g.initErr != nil {
		return "", g.initErr
	}
	return "https://checkout.example/" + p.PaymentRef, nil
}

func (g *fakeGateway) Verify(ctx context.Context, txRef string) (domain.PaymentStatus, string, error) {
	return g.verifyStatus, "gw-" + txRef, nil
}
