package app

import (
	"context"
	"fmt"
	"time"

	"travelapi/internal/domain"
)

func reviewsKey(listingID int64, page, perPage int) string {
	return fmt.Sprintf("reviews:%d:%d:%d", listingID, page, perPage)
}

type ReviewService struct {
	reviews  domain.ReviewRepository
	listings domain.ListingRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewReviewService(rr domain.ReviewRepository, lr domain.ListingRepository, c domain.Cache, ttl time.Duration) *ReviewService {
	return &ReviewService{reviews: rr, listings: lr, cache: c, cacheTTL: ttl}
}

// Create validates rating bounds, checks the target listing exists and
// inserts. The one-review-per-(user, listing) rule is enforced by the unique
// key and comes back as ErrConflict, race included.
func (s *ReviewService) Create(ctx context.Context, r *domain.Review) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if _, err := s.listings.GetListing(ctx, r.ListingID); err != nil {
		return err
	}
	if err := s.reviews.CreateReview(ctx, r); err != nil {
		return err
	}
	s.invalidate(ctx, r.ListingID)
	return nil
}

func (s *ReviewService) Get(ctx context.Context, id int64) (domain.Review, error) {
	return s.reviews.GetReview(ctx, id)
}

func (s *ReviewService) ListForListing(ctx context.Context, listingID int64, page, perPage int) (domain.ReviewsPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	key := reviewsKey(listingID, page, perPage)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.reviews.ListReviews(ctx, listingID, page, perPage)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// Update rejects rating changes out of bounds and only lets the author edit.
func (s *ReviewService) Update(ctx context.Context, r *domain.Review, userID int64) error {
	if err := r.Validate(); err != nil {
		return err
	}
	existing, err := s.reviews.GetReview(ctx, r.ID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return domain.ErrNotFound
	}
	if err := s.reviews.UpdateReview(ctx, r); err != nil {
		return err
	}
	s.invalidate(ctx, existing.ListingID)
	return nil
}

func (s *ReviewService) Delete(ctx context.Context, id, userID int64) error {
	existing, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return domain.ErrNotFound
	}
	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, existing.ListingID)
	return nil
}

// invalidate drops the listing detail (its average rating changed) and the
// first few review pages for that listing.
func (s *ReviewService) invalidate(ctx context.Context, listingID int64) {
	_ = s.cache.Del(ctx, listingKey(listingID))
	for page := 1; page <= 3; page++ {
		_ = s.cache.Del(ctx, reviewsKey(listingID, page, DefaultPerPage))
	}
}
