package domain

import (
	"math"
	"time"
)

type Review struct {
	ID        int64
	ListingID int64
	UserID    int64
	// BookingID links the review to a completed stay when one exists.
	BookingID *int64
	Rating    int
	Comment   string
	// Category ratings are optional; nil means the reviewer skipped them.
	Cleanliness *int
	Accuracy    *int
	Location    *int
	Value       *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks all five rating fields against the [1,5] scale.
func (r Review) Validate() error {
	ve := &ValidationError{}
	if r.Rating < 1 || r.Rating > 5 {
		ve.Add("rating", "rating must be between 1 and 5")
	}
	for field, v := range map[string]*int{
		"cleanliness_rating": r.Cleanliness,
		"accuracy_rating":    r.Accuracy,
		"location_rating":    r.Location,
		"value_rating":       r.Value,
	} {
		if v != nil && (*v < 1 || *v > 5) {
			ve.Add(field, field+" must be between 1 and 5")
		}
	}
	return ve.OrNil()
}

// AverageRating is the arithmetic mean of overall ratings rounded to one
// decimal place. Zero when there are no ratings.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}

type ReviewsPage struct {
	Items   []Review
	Total   int
	Page    int
	PerPage int
}
