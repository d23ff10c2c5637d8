package app_test

import (
	"context"
	"errors"
	"testing"

	"travelapi/internal/app"
	"travelapi/internal/domain"
)

func seedBooking(t *testing.T, f *fakeStore, userID int64) domain.Booking {
	t.Helper()
	listingID := seedListing(f, 150, 4)
	b := domain.Booking{
		ListingID: listingID, UserID: userID, Status: domain.BookingPending,
		CheckIn: day("2024-04-01"), CheckOut: day("2024-04-03"), NumGuests: 2,
	}
	if err := f.CreateBooking(context.Background(), &b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	f.users[userID] = domain.User{ID: userID, Username: "guest", Email: "guest@example.com"}
	return b
}

func TestPaymentInitiate(t *testing.T) {
	f := newFakeStore()
	b := seedBooking(t, f, 7)
	svc := app.NewPaymentService(f, f, f, &fakeGateway{}, "ETB")

	p, err := svc.Initiate(context.Background(), b.ID, 7)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if p.Amount != b.TotalPrice {
		t.Fatalf("amount = %v, want booking total %v", p.Amount, b.TotalPrice)
	}
	if p.Status != domain.PaymentProcessing || p.CheckoutURL == "" || p.PaymentRef == "" {
		t.Fatalf("unexpected payment: %+v", p)
	}

	// one payment per booking
	if _, err := svc.Initiate(context.Background(), b.ID, 7); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict for second payment, got %v", err)
	}
}

func TestPaymentInitiate_OwnerAndStatusChecks(t *testing.T) {
	f := newFakeStore()
	b := seedBooking(t, f, 7)
	svc := app.NewPaymentService(f, f, f, &fakeGateway{}, "")

	if _, err := svc.Initiate(context.Background(), b.ID, 8); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign booking should be not found, got %v", err)
	}

	if err := f.UpdateBookingStatus(context.Background(), b.ID, domain.BookingCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Initiate(context.Background(), b.ID, 7); !domain.IsValidation(err) {
		t.Fatalf("want validation error for cancelled booking, got %v", err)
	}
}

func TestPaymentVerify_ConfirmsBooking(t *testing.T) {
	f := newFakeStore()
	b := seedBooking(t, f, 7)
	gw := &fakeGateway{verifyStatus: domain.PaymentCompleted}
	svc := app.NewPaymentService(f, f, f, gw, "ETB")

	p, err := svc.Initiate(context.Background(), b.ID, 7)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	verified, err := svc.Verify(context.Background(), p.PaymentRef)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.Status != domain.PaymentCompleted || verified.GatewayTxRef == "" {
		t.Fatalf("unexpected verified payment: %+v", verified)
	}

	got, err := f.GetBooking(context.Background(), b.ID)
	if err != nil || got.Status != domain.BookingConfirmed {
		t.Fatalf("completed payment should confirm booking, got %v (%s)", err, got.Status)
	}
}

func TestPaymentVerify_FailedLeavesBookingPending(t *testing.T) {
	f := newFakeStore()
	b := seedBooking(t, f, 7)
	gw := &fakeGateway{verifyStatus: domain.PaymentFailed}
	svc := app.NewPaymentService(f, f, f, gw, "ETB")

	p, err := svc.Initiate(context.Background(), b.ID, 7)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if _, err := svc.Verify(context.Background(), p.PaymentRef); err != nil {
		t.Fatalf("verify: %v", err)
	}

	got, _ := f.GetBooking(context.Background(), b.ID)
	if got.Status != domain.BookingPending {
		t.Fatalf("failed payment must not confirm, got %s", got.Status)
	}
}

func TestPaymentGet_Unknown(t *testing.T) {
	f := newFakeStore()
	svc := app.NewPaymentService(f, f, f, &fakeGateway{}, "ETB")
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
