// Package seed populates the database with realistic sample data for local
// development and demos.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"travelapi/internal/domain"
)

// Store is what the seeder needs from storage. Reset wipes all rows in
// dependency order; the MySQL repo implements it.
type Store interface {
	domain.UserRepository
	domain.ListingRepository
	domain.BookingRepository
	domain.ReviewRepository
	Reset(ctx context.Context) error
}

type Params struct {
	Users    int
	Listings int
	Bookings int
	Reviews  int
	Clear    bool
	Workers  int
	// Seed fixes the PRNG for reproducible datasets; 0 leaves it random.
	Seed int64
}

// baseDate anchors generated stays; far enough out that seeded bookings
// never collide with dates used in manual testing.
var baseDate = time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	firstNames = []string{"Abebe", "Sara", "Daniel", "Hanna", "Yonas", "Marta", "Samuel", "Liya", "Dawit", "Ruth"}
	lastNames  = []string{"Bekele", "Tesfaye", "Girma", "Alemu", "Kebede", "Assefa", "Haile", "Tadesse", "Worku", "Mulu"}

	adjectives = []string{"Cozy", "Modern", "Sunny", "Charming", "Spacious", "Quiet", "Rustic", "Elegant", "Bright", "Stylish"}
	kinds      = []string{"Apartment", "Villa", "Studio", "Cottage", "Loft", "Guesthouse", "Bungalow", "Penthouse"}
	locations  = []string{"Addis Ababa", "Bahir Dar", "Lalibela", "Gondar", "Hawassa", "Dire Dawa", "Mekelle", "Axum", "Jimma", "Harar"}

	amenityPool = []string{"wifi", "kitchen", "parking", "air conditioning", "washer", "pool", "balcony", "garden", "tv", "workspace"}

	comments = []string{
		"Great location and very clean.",
		"The host was wonderful, would stay again.",
		"Exactly as described. Comfortable beds.",
		"A bit noisy at night but otherwise lovely.",
		"Amazing views and a spotless kitchen.",
		"Check-in was smooth and the place felt like home.",
		"Decent value for the price.",
		"Loved the neighborhood, lots to do nearby.",
	}
)

// Run seeds users, listings, bookings and reviews in that order so every
// generated row has valid references. Listings are inserted concurrently;
// bookings per listing are laid out back to back so none overlap, and
// review (user, listing) pairs are never repeated.
func Run(ctx context.Context, store Store, p Params) error {
	if p.Workers < 1 {
		p.Workers = 4
	}
	rng := rand.New(rand.NewSource(p.Seed))
	if p.Seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	if p.Clear {
		if err := store.Reset(ctx); err != nil {
			return fmt.Errorf("clear existing data: %w", err)
		}
		log.Info().Msg("cleared existing data")
	}

	users, err := seedUsers(ctx, store, rng, p.Users)
	if err != nil {
		return err
	}
	listings, err := seedListings(ctx, store, rng, users, p.Listings, p.Workers)
	if err != nil {
		return err
	}
	if err := seedBookings(ctx, store, rng, users, listings, p.Bookings); err != nil {
		return err
	}
	if err := seedReviews(ctx, store, rng, users, listings, p.Reviews); err != nil {
		return err
	}
	log.Info().
		Int("users", len(users)).
		Int("listings", len(listings)).
		Msg("seeding completed")
	return nil
}

func seedUsers(ctx context.Context, store Store, rng *rand.Rand, n int) ([]domain.User, error) {
	users := make([]domain.User, 0, n)
	for i := 0; i < n; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		u := domain.User{
			Username:  fmt.Sprintf("%s%s%02d", lower(first), lower(last), i+1),
			Email:     fmt.Sprintf("%s.%s%02d@example.com", lower(first), lower(last), i+1),
			FirstName: first,
			LastName:  last,
		}
		if err := store.CreateUser(ctx, &u); err != nil {
			return nil, fmt.Errorf("create user %q: %w", u.Username, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func seedListings(ctx context.Context, store Store, rng *rand.Rand, users []domain.User, n, workers int) ([]domain.Listing, error) {
	if len(users) == 0 && n > 0 {
		return nil, fmt.Errorf("cannot seed listings without users")
	}

	// Build rows up front on one goroutine; the PRNG is not safe for
	// concurrent use.
	rows := make([]domain.Listing, n)
	for i := range rows {
		host := users[rng.Intn(len(users))]
		title := fmt.Sprintf("%s %s in %s",
			adjectives[rng.Intn(len(adjectives))],
			kinds[rng.Intn(len(kinds))],
			locations[rng.Intn(len(locations))])
		rows[i] = domain.Listing{
			Title:         title,
			Description:   fmt.Sprintf("%s with room for your whole group.", title),
			Location:      locations[rng.Intn(len(locations))],
			PricePerNight: float64(50 + rng.Intn(451)),
			MaxGuests:     1 + rng.Intn(8),
			Bedrooms:      1 + rng.Intn(4),
			Bathrooms:     1 + rng.Intn(3),
			Amenities:     pickAmenities(rng),
			Availability:  true,
			HostID:        host.ID,
		}
	}

	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	out := make([]domain.Listing, 0, n)

	for i := range rows {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(l domain.Listing) {
			defer wg.Done()
			defer sem.Release(1)
			err := store.CreateListing(ctx, &l)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("create listing %q: %w", l.Title, err)
				}
				return
			}
			out = append(out, l)
		}(rows[i])
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func seedBookings(ctx context.Context, store Store, rng *rand.Rand, users []domain.User, listings []domain.Listing, n int) error {
	if n == 0 {
		return nil
	}
	if len(users) == 0 || len(listings) == 0 {
		return fmt.Errorf("cannot seed bookings without users and listings")
	}

	statuses := []domain.BookingStatus{
		domain.BookingPending, domain.BookingConfirmed,
		domain.BookingConfirmed, domain.BookingCompleted,
	}

	// Per-listing cursor keeps generated stays strictly back to back, so
	// none of them trip the overlap check.
	cursors := map[int64]int{}
	for i := 0; i < n; i++ {
		l := listings[rng.Intn(len(listings))]
		u := users[rng.Intn(len(users))]
		nights := 1 + rng.Intn(7)
		gap := rng.Intn(3)

		start := baseDate.AddDate(0, 0, cursors[l.ID]+gap)
		end := start.AddDate(0, 0, nights)
		cursors[l.ID] += gap + nights

		b := domain.Booking{
			ListingID: l.ID,
			UserID:    u.ID,
			CheckIn:   start,
			CheckOut:  end,
			NumGuests: 1 + rng.Intn(l.MaxGuests),
			Status:    statuses[rng.Intn(len(statuses))],
		}
		if err := store.CreateBooking(ctx, &b); err != nil {
			return fmt.Errorf("create booking for listing %d: %w", l.ID, err)
		}
	}
	return nil
}

func seedReviews(ctx context.Context, store Store, rng *rand.Rand, users []domain.User, listings []domain.Listing, n int) error {
	if n == 0 {
		return nil
	}
	if len(users) == 0 || len(listings) == 0 {
		return fmt.Errorf("cannot seed reviews without users and listings")
	}
	if max := len(users) * len(listings); n > max {
		n = max
	}

	// Walk shuffled (user, listing) pairs so the unique reviewer-per-listing
	// constraint can never fire.
	type pair struct{ u, l int }
	pairs := make([]pair, 0, len(users)*len(listings))
	for ui := range users {
		for li := range listings {
			pairs = append(pairs, pair{ui, li})
		}
	}
	rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })

	for i := 0; i < n; i++ {
		p := pairs[i]
		rating := 1 + rng.Intn(5)
		r := domain.Review{
			ListingID: listings[p.l].ID,
			UserID:    users[p.u].ID,
			Rating:    rating,
			Comment:   comments[rng.Intn(len(comments))],
		}
		if rng.Intn(2) == 0 {
			r.Cleanliness = intPtr(1 + rng.Intn(5))
			r.Accuracy = intPtr(1 + rng.Intn(5))
			r.Location = intPtr(1 + rng.Intn(5))
			r.Value = intPtr(1 + rng.Intn(5))
		}
		if err := store.CreateReview(ctx, &r); err != nil {
			return fmt.Errorf("create review for listing %d: %w", r.ListingID, err)
		}
	}
	return nil
}

func pickAmenities(rng *rand.Rand) []string {
	n := 2 + rng.Intn(5)
	idx := rng.Perm(len(amenityPool))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, amenityPool[i])
	}
	return out
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func intPtr(v int) *int { return &v }
