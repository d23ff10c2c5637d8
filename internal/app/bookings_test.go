package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelapi/internal/app"
	"travelapi/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedListing(f *fakeStore, price float64, maxGuests int) int64 {
	l := domain.Listing{
		Title: "Beachfront Villa", Location: "Malibu, CA",
		PricePerNight: price, MaxGuests: maxGuests,
		Availability: true, IsActive: true, HostID: 1,
	}
	_ = f.CreateListing(context.Background(), &l)
	return l.ID
}

func TestBookingCreate_DerivesTotalPrice(t *testing.T) {
	f := newFakeStore()
	listingID := seedListing(f, 100, 4)
	svc := app.NewBookingService(f)

	b := domain.Booking{
		ListingID: listingID, UserID: 7,
		CheckIn: day("2024-01-10"), CheckOut: day("2024-01-12"), NumGuests: 2,
	}
	if err := svc.Create(context.Background(), &b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.TotalPrice != 200 {
		t.Fatalf("total price = %v, want 200", b.TotalPrice)
	}
	if b.Nights() != 2 {
		t.Fatalf("nights = %d, want 2", b.Nights())
	}
	if b.Status != domain.BookingPending {
		t.Fatalf("status = %s, want pending", b.Status)
	}
}

func TestBookingCreate_RejectsOverlap(t *testing.T) {
	f := newFakeStore()
	listingID := seedListing(f, 100, 4)
	svc := app.NewBookingService(f)

	first := domain.Booking{
		ListingID: listingID, UserID: 7,
		CheckIn: day("2024-01-11"), CheckOut: day("2024-01-13"), NumGuests: 2,
	}
	if err := svc.Create(context.Background(), &first); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Confirm(context.Background(), first.ID, 7); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	second := domain.Booking{
		ListingID: listingID, UserID: 8,
		CheckIn: day("2024-01-10"), CheckOut: day("2024-01-12"), NumGuests: 2,
	}
	err := svc.Create(context.Background(), &second)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestBookingCreate_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFakeStore()
	listingID := seedListing(f, 100, 4)
	svc := app.NewBookingService(f)

	first := domain.Booking{
		ListingID: listingID, UserID: 7,
		CheckIn: day("2024-01-11"), CheckOut: day("2024-01-13"), NumGuests: 2,
	}
	if err := svc.Create(context.Background(), &first); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), first.ID, 7); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	second := domain.Booking{
		ListingID: listingID, UserID: 8,
		CheckIn: day("2024-01-10"), CheckOut: day("2024-01-12"), NumGuests: 2,
	}
	if err := svc.Create(context.Background(), &second); err != nil {
		t.Fatalf("second create after cancel: %v", err)
	}
}

func TestBookingCreate_RejectsBadDatesAndCapacity(t *testing.T) {
	f := newFakeStore()
	listingID := seedListing(f, 100, 2)
	svc := app.NewBookingService(f)

	inverted := domain.Booking{
		ListingID: listingID, UserID: 7,
		CheckIn: day("2024-01-12"), CheckOut: day("2024-01-10"), NumGuests: 1,
	}
	if err := svc.Create(context.Background(), &inverted); !domain.IsValidation(err) {
		t.Fatalf("want validation error for inverted dates, got %v", err)
	}

	tooMany := domain.Booking{
		ListingID: listingID, UserID: 7,
		CheckIn: day("2024-01-10"), CheckOut: day("2024-01-12"), NumGuests: 3,
	}
	if err := svc.Create(context.Background(), &tooMany); !domain.IsValidation(err) {
		t.Fatalf("want validation error for capacity, got %v", err)
	}
}

func TestBookingCreate_MissingListingIsNotFound(t *testing.T) {
	f := newFakeStore()
	svc := app.NewBookingService(f)

	b := domain.Booking{
		ListingID: 999, UserID: 7,
		CheckIn: day("2024-01-10"), CheckOut: day("2024-01-12"), NumGuests: 1,
	}
	if err := svc.Create(context.Background(), &b); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestBookingTransitions(t *testing.T) {
	f := newFakeStore()
	listingID := seedListing(f, 100, 4)
	svc := app.NewBookingService(f)

	b := domain.Booking{
		ListingID: listingID, UserID: 7,
		CheckIn: day("2024-02-01"), CheckOut: day("2024-02-03"), NumGuests: 1,
	}
	if err := svc.Create(context.Background(), &b); err != nil {
		t.Fatalf("create: %v", err)
	}

	// confirm from pending is fine
	got, err := svc.Confirm(context.Background(), b.ID, 7)
	if err != nil || got.Status != domain.BookingConfirmed {
		t.Fatalf("confirm: %v (status %s)", err, got.Status)
	}

	// confirming twice is rejected
	if _, err := svc.Confirm(context.Background(), b.ID, 7); !domain.IsValidation(err) {
		t.Fatalf("want validation error on double confirm, got %v", err)
	}

	// cancel from confirmed is fine; cancel again is not
	if _, err := svc.Cancel(context.Background(), b.ID, 7); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), b.ID, 7); !domain.IsValidation(err) {
		t.Fatalf("want validation error on double cancel, got %v", err)
	}
}

func TestBookingGet_OwnerOnly(t *testing.T) {
	f := newFakeStore()
	listingID := seedListing(f, 100, 4)
	svc := app.NewBookingService(f)

	b := domain.Booking{
		ListingID: listingID, UserID: 7,
		CheckIn: day("2024-02-01"), CheckOut: day("2024-02-03"), NumGuests: 1,
	}
	if err := svc.Create(context.Background(), &b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Get(context.Background(), b.ID, 8); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign booking should read as not found, got %v", err)
	}
}
