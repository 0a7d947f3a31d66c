package listing

import (
	"context"
	"fmt"
	"time"

	"farmify/internal/farmerrors"
	"farmify/internal/models"
	"farmify/internal/pricing"
	"farmify/internal/repository"
)

// View is a listing joined with the seller's public profile and the
// current quote from the pricing function.
type View struct {
	models.Product
	SellerName        string        `json:"seller_name"`
	SellerDescription string        `json:"seller_description"`
	SellerAddress     string        `json:"seller_address"`
	PayPalAccount     string        `json:"paypal_account"`
	Phase             pricing.Phase `json:"phase"`
	CurrentPrice      *float64      `json:"current_price,omitempty"`
}

// ListingService defines the business logic for auction listings
type ListingService struct {
	listings repository.ListingStore
	users    repository.UserStore

	// Now supplies the clock for price quotes; tests override it.
	Now func() time.Time
}

// NewListingService creates a new ListingService instance
func NewListingService(listings repository.ListingStore, users repository.UserStore) *ListingService {
	return &ListingService{
		listings: listings,
		users:    users,
		Now:      time.Now,
	}
}

// CreateListing validates and persists a new auction listing.
func (s *ListingService) CreateListing(ctx context.Context, listing models.Product) (models.Product, error) {
	if listing.Name == "" || listing.SellerID == 0 {
		return models.Product{}, fmt.Errorf("service: %w - missing name or seller", farmerrors.ErrInvalidListing)
	}
	if listing.StartPrice <= 0 || listing.EndPrice <= 0 {
		return models.Product{}, fmt.Errorf("service: %w - prices must be positive", farmerrors.ErrInvalidListing)
	}
	if !listing.StartTime.Before(listing.EndTime) {
		return models.Product{}, fmt.Errorf("service: %w - start time must precede end time", farmerrors.ErrInvalidListing)
	}

	if err := s.listings.CreateListing(ctx, &listing); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to create listing: %w", err)
	}
	return listing, nil
}

// GetListing returns a listing with its seller projection and current price.
func (s *ListingService) GetListing(ctx context.Context, id uint) (View, error) {
	listing, err := s.listings.GetListing(ctx, id)
	if err != nil {
		return View{}, fmt.Errorf("service: failed to get listing %d: %w", id, err)
	}
	return s.project(ctx, listing), nil
}

// ListListings returns all listings with seller projections. Unpaginated.
func (s *ListingService) ListListings(ctx context.Context) ([]View, error) {
	listings, err := s.listings.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list listings: %w", err)
	}

	views := make([]View, 0, len(listings))
	for _, l := range listings {
		views = append(views, s.project(ctx, l))
	}
	return views, nil
}

// project joins the seller's public fields and attaches the quote. Seller
// lookup is best-effort: a missing seller row leaves the projection empty
// rather than failing the read.
func (s *ListingService) project(ctx context.Context, listing models.Product) View {
	view := View{Product: listing}

	if seller, err := s.users.GetSeller(ctx, listing.SellerID); err == nil {
		view.SellerName = seller.SellerName
		view.SellerDescription = seller.Description
		view.SellerAddress = seller.Address
		view.PayPalAccount = seller.PayPalAccount
	}

	price, phase := pricing.Quote(listing.StartPrice, listing.EndPrice, listing.StartTime, listing.EndTime, s.Now())
	view.Phase = phase
	if phase == pricing.PhaseActive {
		rounded := pricing.RoundCurrency(price)
		view.CurrentPrice = &rounded
	}
	return view
}
