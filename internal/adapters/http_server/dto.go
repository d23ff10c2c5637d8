package httpserver

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"travelapi/internal/domain"
)

const dateLayout = "2006-01-02"

// validate uses json tag names in error output so field errors line up with
// what the client actually sent.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// fieldErrors flattens validator output into the problem-details errors map.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !asValidationErrors(err, &verrs) {
		out["body"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "this field is required"
		case "gt":
			out[fe.Field()] = fmt.Sprintf("must be greater than %s", fe.Param())
		case "min":
			out[fe.Field()] = fmt.Sprintf("must be at least %s", fe.Param())
		case "max":
			out[fe.Field()] = fmt.Sprintf("must be at most %s", fe.Param())
		case "datetime":
			out[fe.Field()] = "must be a date in YYYY-MM-DD format"
		default:
			out[fe.Field()] = "is invalid"
		}
	}
	return out
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

// ---- requests ----

type listingRequest struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description"`
	Location      string   `json:"location" validate:"required,max=100"`
	PricePerNight float64  `json:"price_per_night" validate:"required,gt=0"`
	MaxGuests     int      `json:"max_guests" validate:"required,min=1,max=50"`
	Bedrooms      int      `json:"bedrooms" validate:"min=0"`
	Bathrooms     int      `json:"bathrooms" validate:"min=0"`
	Amenities     []string `json:"amenities"`
	Availability  *bool    `json:"availability"`
}

func (r listingRequest) toDomain(hostID int64) domain.Listing {
	avail := true
	if r.Availability != nil {
		avail = *r.Availability
	}
	return domain.Listing{
		Title:         r.Title,
		Description:   r.Description,
		Location:      r.Location,
		PricePerNight: r.PricePerNight,
		MaxGuests:     r.MaxGuests,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		Amenities:     r.Amenities,
		Availability:  avail,
		HostID:        hostID,
	}
}

type bookingRequest struct {
	ListingID       int64  `json:"listing_id" validate:"required"`
	CheckInDate     string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate    string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	NumGuests       int    `json:"num_guests" validate:"required,min=1"`
	SpecialRequests string `json:"special_requests"`
}

type reviewRequest struct {
	ListingID   int64  `json:"listing_id" validate:"required"`
	BookingID   *int64 `json:"booking_id"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comment     string `json:"comment"`
	Cleanliness *int   `json:"cleanliness_rating" validate:"omitempty,min=1,max=5"`
	Accuracy    *int   `json:"accuracy_rating" validate:"omitempty,min=1,max=5"`
	Location    *int   `json:"location_rating" validate:"omitempty,min=1,max=5"`
	Value       *int   `json:"value_rating" validate:"omitempty,min=1,max=5"`
}

type paymentRequest struct {
	BookingID int64 `json:"booking_id" validate:"required"`
}

// ---- responses ----

type listingResponse struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	PricePerNight float64  `json:"price_per_night"`
	MaxGuests     int      `json:"max_guests"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	Availability  bool     `json:"availability"`
	HostID        int64    `json:"host_id"`
	AverageRating float64  `json:"average_rating"`
	ReviewsCount  int      `json:"reviews_count"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func toListingResponse(lv domain.ListingView) listingResponse {
	amenities := lv.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return listingResponse{
		ID:            lv.ID,
		Title:         lv.Title,
		Description:   lv.Description,
		Location:      lv.Location,
		PricePerNight: lv.PricePerNight,
		MaxGuests:     lv.MaxGuests,
		Bedrooms:      lv.Bedrooms,
		Bathrooms:     lv.Bathrooms,
		Amenities:     amenities,
		Availability:  lv.Availability,
		HostID:        lv.HostID,
		AverageRating: lv.AverageRating,
		ReviewsCount:  lv.ReviewsCount,
		CreatedAt:     lv.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     lv.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type bookingResponse struct {
	ID              int64   `json:"id"`
	ListingID       int64   `json:"listing_id"`
	UserID          int64   `json:"user_id"`
	CheckInDate     string  `json:"check_in_date"`
	CheckOutDate    string  `json:"check_out_date"`
	NumGuests       int     `json:"num_guests"`
	TotalPrice      float64 `json:"total_price"`
	Status          string  `json:"status"`
	SpecialRequests string  `json:"special_requests"`
	DurationDays    int     `json:"duration_days"`
	CreatedAt       string  `json:"created_at"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		ListingID:       b.ListingID,
		UserID:          b.UserID,
		CheckInDate:     b.CheckIn.Format(dateLayout),
		CheckOutDate:    b.CheckOut.Format(dateLayout),
		NumGuests:       b.NumGuests,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		DurationDays:    b.Nights(),
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type reviewResponse struct {
	ID          int64  `json:"id"`
	ListingID   int64  `json:"listing_id"`
	UserID      int64  `json:"user_id"`
	BookingID   *int64 `json:"booking_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	Cleanliness *int   `json:"cleanliness_rating"`
	Accuracy    *int   `json:"accuracy_rating"`
	Location    *int   `json:"location_rating"`
	Value       *int   `json:"value_rating"`
	CreatedAt   string `json:"created_at"`
}

func toReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:          r.ID,
		ListingID:   r.ListingID,
		UserID:      r.UserID,
		BookingID:   r.BookingID,
		Rating:      r.Rating,
		Comment:     r.Comment,
		Cleanliness: r.Cleanliness,
		Accuracy:    r.Accuracy,
		Location:    r.Location,
		Value:       r.Value,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type paymentResponse struct {
	PaymentRef   string  `json:"payment_ref"`
	BookingID    int64   `json:"booking_id"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
	CheckoutURL  string  `json:"checkout_url,omitempty"`
	GatewayTxRef string  `json:"gateway_tx_ref,omitempty"`
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	return paymentResponse{
		PaymentRef:   p.PaymentRef,
		BookingID:    p.BookingID,
		Amount:       p.Amount,
		Currency:     p.Currency,
		Status:       string(p.Status),
		CheckoutURL:  p.CheckoutURL,
		GatewayTxRef: p.GatewayTxRef,
	}
}

// paginated is the standard list envelope: 20 items per page by default.
type paginated struct {
	Count   int `json:"count"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Results any `json:"results"`
}
