package app

import (
	"context"

	"github.com/google/uuid"

	"travelapi/internal/domain"
)

type PaymentService struct {
	payments domain.PaymentRepository
	bookings domain.BookingRepository
	users    domain.UserRepository
	gateway  domain.PaymentGateway
	currency string
}

func NewPaymentService(pr domain.PaymentRepository, br domain.BookingRepository, ur domain.UserRepository, gw domain.PaymentGateway, currency string) *PaymentService {
	if currency == "" {
		currency = "ETB"
	}
	return &PaymentService{payments: pr, bookings: br, users: ur, gateway: gw, currency: currency}
}

// Initiate creates a pending payment for the booking's full total and asks
// the gateway for a checkout URL. One payment per booking; a second attempt
// conflicts.
func (s *PaymentService) Initiate(ctx context.Context, bookingID, userID int64) (domain.Payment, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Payment{}, err
	}
	if b.UserID != userID {
		return domain.Payment{}, domain.ErrNotFound
	}
	if b.Status == domain.BookingCancelled {
		return domain.Payment{}, domain.NewValidationError("booking_id", "cannot pay for a cancelled booking")
	}

	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.Payment{}, err
	}

	p := domain.Payment{
		PaymentRef: uuid.New().String(),
		BookingID:  bookingID,
		UserID:     userID,
		Amount:     b.TotalPrice,
		Currency:   s.currency,
		Status:     domain.PaymentPending,
	}

	checkoutURL, err := s.gateway.Initialize(ctx, p, u.Email)
	if err != nil {
		return domain.Payment{}, err
	}
	p.CheckoutURL = checkoutURL
	p.Status = domain.PaymentProcessing

	if err := s.payments.CreatePayment(ctx, &p); err != nil {
		return domain.Payment{}, err
	}
	return p, nil
}

func (s *PaymentService) Get(ctx context.Context, ref string) (domain.Payment, error) {
	return s.payments.GetPaymentByRef(ctx, ref)
}

// Verify asks the gateway for the transaction's fate and records it. A
// completed payment confirms its pending booking.
func (s *PaymentService) Verify(ctx context.Context, ref string) (domain.Payment, error) {
	p, err := s.payments.GetPaymentByRef(ctx, ref)
	if err != nil {
		return domain.Payment{}, err
	}

	status, gatewayTxRef, err := s.gateway.Verify(ctx, p.PaymentRef)
	if err != nil {
		return domain.Payment{}, err
	}

	if err := s.payments.UpdatePaymentStatus(ctx, ref, status, gatewayTxRef); err != nil {
		return domain.Payment{}, err
	}
	p.Status = status
	p.GatewayTxRef = gatewayTxRef

	if status == domain.PaymentCompleted {
		if b, err := s.bookings.GetBooking(ctx, p.BookingID); err == nil && b.Status == domain.BookingPending {
			_ = s.bookings.UpdateBookingStatus(ctx, p.BookingID, domain.BookingConfirmed)
		}
	}
	return p, nil
}
