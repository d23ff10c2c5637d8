package domain

import "time"

// MaxGuestsCeiling caps the guest capacity a single listing may advertise.
const MaxGuestsCeiling = 50

type Listing struct {
	ID            int64
	Title         string
	Description   string
	Location      string
	PricePerNight float64
	MaxGuests     int
	Bedrooms      int
	Bathrooms     int
	Amenities     []string
	Availability  bool
	HostID        int64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the listing's own field constraints. Referential checks
// (host exists) belong to the storage layer.
func (l Listing) Validate() error {
	ve := &ValidationError{}
	if l.Title == "" {
		ve.Add("title", "title is required")
	}
	if l.Location == "" {
		ve.Add("location", "location is required")
	}
	if l.PricePerNight <= 0 {
		ve.Add("price_per_night", "price per night must be greater than 0")
	}
	if l.MaxGuests < 1 {
		ve.Add("max_guests", "maximum guests must be at least 1")
	} else if l.MaxGuests > MaxGuestsCeiling {
		ve.Add("max_guests", "maximum guests cannot exceed 50")
	}
	if l.Bedrooms < 0 {
		ve.Add("bedrooms", "bedrooms cannot be negative")
	}
	if l.Bathrooms < 0 {
		ve.Add("bathrooms", "bathrooms cannot be negative")
	}
	return ve.OrNil()
}

// ListingView is the read model: the listing plus rating aggregates computed
// from reviews at query time. AverageRating is never stored.
type ListingView struct {
	Listing
	AverageRating float64
	ReviewsCount  int
}

type ListingsQuery struct {
	Location *string
	MinPrice *float64
	MaxPrice *float64
	// CheckIn/CheckOut, when both set, exclude listings that have a
	// pending or confirmed booking overlapping the window.
	CheckIn  *time.Time
	CheckOut *time.Time
	Page     int
	PerPage  int
}

type ListingsPage struct {
	Items   []ListingView
	Total   int
	Page    int
	PerPage int
}
