package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelapi/internal/app"
	"travelapi/internal/domain"
)

func TestListingCreate_Validates(t *testing.T) {
	f := newFakeStore()
	svc := app.NewListingService(f, &fakeCache{}, time.Minute)

	bad := domain.Listing{Title: "No price", Location: "Nowhere", PricePerNight: 0, MaxGuests: 2}
	if err := svc.Create(context.Background(), &bad); !domain.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}

	ok := domain.Listing{Title: "Urban Studio", Location: "Chicago, IL", PricePerNight: 120, MaxGuests: 2, Availability: true}
	if err := svc.Create(context.Background(), &ok); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ok.ID == 0 || !ok.IsActive {
		t.Fatalf("created listing not active with id: %+v", ok)
	}
}

func TestListingGet_CacheMissThenHit(t *testing.T) {
	f := newFakeStore()
	cache := &fakeCache{}
	svc := app.NewListingService(f, cache, 10*time.Minute)

	l := domain.Listing{Title: "Lakeside Cottage", Location: "Lake Tahoe, CA", PricePerNight: 320, MaxGuests: 4, Availability: true, IsActive: true}
	if err := f.CreateListing(context.Background(), &l); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.Get(context.Background(), l.ID)
	if err != nil || got.Title != "Lakeside Cottage" {
		t.Fatalf("first get: %v (%+v)", err, got)
	}

	// mutate behind the cache to prove the second read is served from it
	mut := f.listings[l.ID]
	mut.Title = "SHOULD NOT SEE THIS"
	f.listings[l.ID] = mut

	got2, err := svc.Get(context.Background(), l.ID)
	if err != nil || got2.Title != "Lakeside Cottage" {
		t.Fatalf("expected cached title, got %v (%q)", err, got2.Title)
	}
}

func TestListingDelete_Soft(t *testing.T) {
	f := newFakeStore()
	svc := app.NewListingService(f, &fakeCache{}, time.Minute)

	l := domain.Listing{Title: "Desert Oasis", Location: "Scottsdale, AZ", PricePerNight: 375, MaxGuests: 6, Availability: true}
	if err := svc.Create(context.Background(), &l); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), l.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), l.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted listing should be gone, got %v", err)
	}
}

func TestListingList_AvailabilityWindow(t *testing.T) {
	f := newFakeStore()
	svc := app.NewListingService(f, &fakeCache{}, time.Minute)
	bookings := app.NewBookingService(f)

	first := domain.Listing{Title: "A", Location: "X", PricePerNight: 100, MaxGuests: 2, Availability: true}
	second := domain.Listing{Title: "B", Location: "X", PricePerNight: 100, MaxGuests: 2, Availability: true}
	for _, l := range []*domain.Listing{&first, &second} {
		if err := svc.Create(context.Background(), l); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	b := domain.Booking{ListingID: first.ID, UserID: 7, CheckIn: day("2024-03-01"), CheckOut: day("2024-03-05"), NumGuests: 1}
	if err := bookings.Create(context.Background(), &b); err != nil {
		t.Fatalf("book: %v", err)
	}

	in, out := day("2024-03-02"), day("2024-03-04")
	page, err := svc.List(context.Background(), domain.ListingsQuery{CheckIn: &in, CheckOut: &out})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != second.ID {
		t.Fatalf("want only the free listing, got %+v", page.Items)
	}

	// half-open interval: a window starting on the existing check-out is free
	in2, out2 := day("2024-03-05"), day("2024-03-07")
	page, err = svc.List(context.Background(), domain.ListingsQuery{CheckIn: &in2, CheckOut: &out2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("back-to-back stay should not block, got %d items", len(page.Items))
	}

	// one-sided window is rejected
	if _, err := svc.List(context.Background(), domain.ListingsQuery{CheckIn: &in}); !domain.IsValidation(err) {
		t.Fatalf("want validation error for one-sided window, got %v", err)
	}
}
