package app

import (
	"context"

	"travelapi/internal/domain"
)

type BookingService struct {
	repo domain.BookingRepository
}

func NewBookingService(r domain.BookingRepository) *BookingService {
	return &BookingService{repo: r}
}

// Create persists a pending booking. Date order, capacity and the overlap
// invariant are enforced by the repository inside its transaction; callers
// get a ValidationError, ErrNotFound or ErrConflict back unchanged.
func (s *BookingService) Create(ctx context.Context, b *domain.Booking) error {
	if !b.CheckOut.After(b.CheckIn) {
		return domain.NewValidationError("check_out_date", "check-out date must be after check-in date")
	}
	b.Status = domain.BookingPending
	return s.repo.CreateBooking(ctx, b)
}

func (s *BookingService) Get(ctx context.Context, id, userID int64) (domain.Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	// bookings are private to their owner
	if b.UserID != userID {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (s *BookingService) List(ctx context.Context, userID int64, page, perPage int) ([]domain.Booking, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return s.repo.ListBookings(ctx, userID, page, perPage)
}

func (s *BookingService) Cancel(ctx context.Context, id, userID int64) (domain.Booking, error) {
	return s.transition(ctx, id, userID, domain.BookingCancelled)
}

func (s *BookingService) Confirm(ctx context.Context, id, userID int64) (domain.Booking, error) {
	return s.transition(ctx, id, userID, domain.BookingConfirmed)
}

func (s *BookingService) Complete(ctx context.Context, id, userID int64) (domain.Booking, error) {
	return s.transition(ctx, id, userID, domain.BookingCompleted)
}

func (s *BookingService) transition(ctx context.Context, id, userID int64, to domain.BookingStatus) (domain.Booking, error) {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Status.Terminal() {
		return domain.Booking{}, domain.NewValidationError("status",
			"cannot change a booking that is already "+string(b.Status))
	}
	if to == domain.BookingConfirmed && b.Status != domain.BookingPending {
		return domain.Booking{}, domain.NewValidationError("status",
			"cannot confirm a booking that is "+string(b.Status))
	}
	if err := s.repo.UpdateBookingStatus(ctx, id, to); err != nil {
		return domain.Booking{}, err
	}
	b.Status = to
	return b, nil
}

func (s *BookingService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.DeleteBooking(ctx, id)
}
