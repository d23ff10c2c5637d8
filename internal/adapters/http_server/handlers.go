// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"travelapi/internal/adapters/observability"
	"travelapi/internal/app"
	"travelapi/internal/domain"
)

type Handlers struct {
	Listings *app.ListingService
	Bookings *app.BookingService
	Reviews  *app.ReviewService
	Payments *app.PaymentService
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Route("/listings", func(r chi.Router) {
			r.Get("/", h.listListings)
			r.Post("/", h.createListing)
			r.Get("/{id}", h.getListing)
			r.Put("/{id}", h.updateListing)
			r.Delete("/{id}", h.deleteListing)
			r.Get("/{id}/reviews", h.listListingReviews)
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.listBookings)
			r.Post("/", h.createBooking)
			r.Get("/{id}", h.getBooking)
			r.Delete("/{id}", h.deleteBooking)
			r.Post("/{id}/cancel", h.cancelBooking)
			r.Post("/{id}/confirm", h.confirmBooking)
		})
		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", h.createReview)
			r.Get("/{id}", h.getReview)
			r.Put("/{id}", h.updateReview)
			r.Delete("/{id}", h.deleteReview)
		})
		r.Route("/payments", func(r chi.Router) {
			r.Post("/", h.initiatePayment)
			r.Get("/{ref}", h.getPayment)
			r.Post("/{ref}/verify", h.verifyPayment)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemFields(w, status, title, detail, nil)
}

func writeProblemFields(w http.ResponseWriter, status int, title, detail string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fields}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem+json responses. Everything the
// domain does not classify is a 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeProblemFields(w, http.StatusBadRequest, "Validation Failed", "", verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", "resource conflicts with existing state")
	default:
		log.Error().Err(err).Msg("unhandled request error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decodeValid decodes the body into dst and runs struct validation, writing
// the problem response itself when either step fails.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeProblemFields(w, http.StatusBadRequest, "Validation Failed", "", fieldErrors(err))
		return false
	}
	return true
}

// userID reads the caller identity from the X-User-ID header. Authentication
// proper sits in front of this service; the header is trusted as-is.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.Header.Get("X-User-ID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "X-User-ID header required")
		return 0, false
	}
	return id, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", name+" must be a positive number")
		return 0, false
	}
	return id, true
}

func pageParams(r *http.Request) (page, perPage int) {
	page, perPage = 1, app.DefaultPerPage
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 && v <= 100 {
		perPage = v
	}
	return page, perPage
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- listings ----

func (h *Handlers) createListing(w http.ResponseWriter, r *http.Request) {
	host, ok := userID(w, r)
	if !ok {
		return
	}
	var req listingRequest
	if !decodeValid(w, r, &req) {
		return
	}
	l := req.toDomain(host)
	if err := h.Listings.Create(r.Context(), &l); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListingResponse(domain.ListingView{Listing: l}))
}

func (h *Handlers) getListing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	lv, err := h.Listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, toListingResponse(lv))
}

func (h *Handlers) listListings(w http.ResponseWriter, r *http.Request) {
	q := domain.ListingsQuery{}
	q.Page, q.PerPage = pageParams(r)

	vals := r.URL.Query()
	if loc := vals.Get("location"); loc != "" {
		q.Location = &loc
	}
	if raw := vals.Get("min_price"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid Filter", "min_price must be a non-negative number")
			return
		}
		q.MinPrice = &f
	}
	if raw := vals.Get("max_price"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid Filter", "max_price must be a non-negative number")
			return
		}
		q.MaxPrice = &f
	}
	if raw := vals.Get("check_in_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Filter", "check_in_date must be a date in YYYY-MM-DD format")
			return
		}
		q.CheckIn = &t
	}
	if raw := vals.Get("check_out_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Filter", "check_out_date must be a date in YYYY-MM-DD format")
			return
		}
		q.CheckOut = &t
	}

	page, err := h.Listings.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	results := make([]listingResponse, 0, len(page.Items))
	for _, lv := range page.Items {
		results = append(results, toListingResponse(lv))
	}
	writeJSON(w, http.StatusOK, paginated{Count: page.Total, Page: page.Page, PerPage: page.PerPage, Results: results})
}

func (h *Handlers) updateListing(w http.ResponseWriter, r *http.Request) {
	host, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	existing, err := h.Listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.HostID != host {
		// Hide foreign listings' write surface the same way reads hide rows.
		writeError(w, domain.ErrNotFound)
		return
	}
	var req listingRequest
	if !decodeValid(w, r, &req) {
		return
	}
	l := req.toDomain(host)
	l.ID = id
	if err := h.Listings.Update(r.Context(), &l); err != nil {
		writeError(w, err)
		return
	}
	lv, err := h.Listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(lv))
}

func (h *Handlers) deleteListing(w http.ResponseWriter, r *http.Request) {
	host, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	existing, err := h.Listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.HostID != host {
		writeError(w, domain.ErrNotFound)
		return
	}
	if err := h.Listings.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listListingReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	page, perPage := pageParams(r)
	out, err := h.Reviews.ListForListing(r.Context(), id, page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	results := make([]reviewResponse, 0, len(out.Items))
	for _, rev := range out.Items {
		results = append(results, toReviewResponse(rev))
	}
	writeCacheable(w, r, paginated{Count: out.Total, Page: out.Page, PerPage: out.PerPage, Results: results})
}

// ---- bookings ----

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req bookingRequest
	if !decodeValid(w, r, &req) {
		return
	}
	checkIn, _ := time.Parse(dateLayout, req.CheckInDate)
	checkOut, _ := time.Parse(dateLayout, req.CheckOutDate)
	b := domain.Booking{
		ListingID:       req.ListingID,
		UserID:          uid,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumGuests:       req.NumGuests,
		SpecialRequests: req.SpecialRequests,
	}
	if err := h.Bookings.Create(r.Context(), &b); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			observability.ObserveBookingConflict()
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(b))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.Bookings.Get(r.Context(), id, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	page, perPage := pageParams(r)
	items, total, err := h.Bookings.List(r.Context(), uid, page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	results := make([]bookingResponse, 0, len(items))
	for _, b := range items {
		results = append(results, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, paginated{Count: total, Page: page, PerPage: perPage, Results: results})
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	h.transitionBooking(w, r, h.Bookings.Cancel)
}

func (h *Handlers) confirmBooking(w http.ResponseWriter, r *http.Request) {
	h.transitionBooking(w, r, h.Bookings.Confirm)
}

func (h *Handlers) transitionBooking(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, uid int64) (domain.Booking, error)) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := fn(r.Context(), id, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Bookings.Delete(r.Context(), id, uid); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- reviews ----

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if !decodeValid(w, r, &req) {
		return
	}
	rev := domain.Review{
		ListingID:   req.ListingID,
		UserID:      uid,
		BookingID:   req.BookingID,
		Rating:      req.Rating,
		Comment:     req.Comment,
		Cleanliness: req.Cleanliness,
		Accuracy:    req.Accuracy,
		Location:    req.Location,
		Value:       req.Value,
	}
	if err := h.Reviews.Create(r.Context(), &rev); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReviewResponse(rev))
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rev, err := h.Reviews.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponse(rev))
}

func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if !decodeValid(w, r, &req) {
		return
	}
	rev := domain.Review{
		ID:          id,
		ListingID:   req.ListingID,
		UserID:      uid,
		BookingID:   req.BookingID,
		Rating:      req.Rating,
		Comment:     req.Comment,
		Cleanliness: req.Cleanliness,
		Accuracy:    req.Accuracy,
		Location:    req.Location,
		Value:       req.Value,
	}
	if err := h.Reviews.Update(r.Context(), &rev, uid); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponse(rev))
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Reviews.Delete(r.Context(), id, uid); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- payments ----

func (h *Handlers) initiatePayment(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if !decodeValid(w, r, &req) {
		return
	}
	p, err := h.Payments.Initiate(r.Context(), req.BookingID, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

func (h *Handlers) getPayment(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	p, err := h.Payments.Get(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

func (h *Handlers) verifyPayment(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	p, err := h.Payments.Verify(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}
