package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

type Booking struct {
	ID              int64
	ListingID       int64
	UserID          int64
	CheckIn         time.Time
	CheckOut        time.Time
	NumGuests       int
	TotalPrice      float64
	Status          BookingStatus
	SpecialRequests string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Nights is the stay duration in whole days.
func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// DatesOverlap reports whether [aStart, aEnd) and [bStart, bEnd) share at
// least one night.
func DatesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidateStay checks a candidate stay against the listing it targets.
// Overlap against existing bookings is the repository's job; this covers
// everything decidable from the pair alone.
func ValidateStay(listing Listing, checkIn, checkOut time.Time, numGuests int) error {
	ve := &ValidationError{}
	if !checkOut.After(checkIn) {
		ve.Add("check_out_date", "check-out date must be after check-in date")
	}
	if numGuests < 1 {
		ve.Add("num_guests", "number of guests must be at least 1")
	} else if numGuests > listing.MaxGuests {
		ve.Add("num_guests", "number of guests exceeds the listing capacity")
	}
	if !listing.Availability {
		ve.Add("listing_id", "this listing is not available for booking")
	}
	return ve.OrNil()
}

// StayPrice derives the booking total from the nightly rate and the stay.
func StayPrice(pricePerNight float64, checkIn, checkOut time.Time) float64 {
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 0 {
		nights = 0
	}
	return pricePerNight * float64(nights)
}
