package app

import (
	"context"
	"fmt"
	"time"

	"travelapi/internal/domain"
)

// DefaultPerPage is the standard page size across list endpoints.
const DefaultPerPage = 20

func listingKey(id int64) string { return fmt.Sprintf("listing:%d", id) }

type ListingService struct {
	repo     domain.ListingRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewListingService(r domain.ListingRepository, c domain.Cache, ttl time.Duration) *ListingService {
	return &ListingService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *ListingService) Create(ctx context.Context, l *domain.Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	l.IsActive = true
	return s.repo.CreateListing(ctx, l)
}

func (s *ListingService) Get(ctx context.Context, id int64) (domain.ListingView, error) {
	key := listingKey(id)
	var lv domain.ListingView
	if ok, _ := s.cache.Get(ctx, key, &lv); ok {
		return lv, nil
	}
	lv, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return domain.ListingView{}, err
	}
	_ = s.cache.Set(ctx, key, lv, int(s.cacheTTL.Seconds()))
	return lv, nil
}

// List is uncached: the filter space (location, price, date window) is too
// wide for useful keys.
func (s *ListingService) List(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if (q.CheckIn == nil) != (q.CheckOut == nil) {
		return domain.ListingsPage{}, domain.NewValidationError(
			"check_in_date", "both check_in_date and check_out_date are required")
	}
	if q.CheckIn != nil && !q.CheckOut.After(*q.CheckIn) {
		return domain.ListingsPage{}, domain.NewValidationError(
			"check_out_date", "check-out date must be after check-in date")
	}
	return s.repo.ListListings(ctx, q)
}

func (s *ListingService) Update(ctx context.Context, l *domain.Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateListing(ctx, l); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, listingKey(l.ID))
	return nil
}

func (s *ListingService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteListing(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, listingKey(id))
	return nil
}
