package bidding

import (
	"context"
	"fmt"
	"time"

	"farmify/internal/farmerrors"
	"farmify/internal/models"
	"farmify/internal/repository"
	"farmify/utils"
)

// View is a bid joined with the buyer's email and a product/seller
// snapshot for display.
type View struct {
	models.Bid
	BuyerEmail  string `json:"buyer_email"`
	ProductName string `json:"product_name"`
	SellerName  string `json:"seller_name"`
}

// BiddingService defines the business logic for marketplace bids
type BiddingService struct {
	bids     repository.BidStore
	listings repository.ListingStore
	users    repository.UserStore
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(bids repository.BidStore, listings repository.ListingStore, users repository.UserStore) *BiddingService {
	return &BiddingService{
		bids:     bids,
		listings: listings,
		users:    users,
	}
}

// PlaceBid validates and records a buyer's purchase against a listing.
// The timestamp is always set server-side.
func (s *BiddingService) PlaceBid(ctx context.Context, buyerID, auctionID uint, amount int, price float64, deliveryStatus string) (models.Bid, error) {
	if buyerID == 0 || auctionID == 0 {
		return models.Bid{}, fmt.Errorf("service: %w - missing buyer or auction id", farmerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive amount", farmerrors.ErrInvalidBid)
	}

	if _, err := s.users.GetBuyer(ctx, buyerID); err != nil {
		return models.Bid{}, fmt.Errorf("service: unknown buyer %d: %w", buyerID, err)
	}
	if _, err := s.listings.GetListing(ctx, auctionID); err != nil {
		return models.Bid{}, fmt.Errorf("service: unknown auction %d: %w", auctionID, err)
	}

	bid := models.Bid{
		ID:             utils.GenerateID(),
		BuyerID:        buyerID,
		AuctionID:      auctionID,
		Amount:         amount,
		Price:          price,
		DeliveryStatus: deliveryStatus,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.bids.RecordBid(ctx, bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for auction %d by buyer %d: %w", auctionID, buyerID, err)
	}

	return bid, nil
}

// GetBid returns a bid with its buyer/product/seller projection.
func (s *BiddingService) GetBid(ctx context.Context, id string) (View, error) {
	if id == "" {
		return View{}, fmt.Errorf("service: %w - empty bid id", farmerrors.ErrInvalidBid)
	}

	bid, err := s.bids.GetBid(ctx, id)
	if err != nil {
		return View{}, fmt.Errorf("service: failed to get bid %s: %w", id, err)
	}
	return s.project(ctx, bid), nil
}

// ListBids returns all bids with their projections.
func (s *BiddingService) ListBids(ctx context.Context) ([]View, error) {
	bids, err := s.bids.ListBids(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bids: %w", err)
	}

	views := make([]View, 0, len(bids))
	for _, b := range bids {
		views = append(views, s.project(ctx, b))
	}
	return views, nil
}

// UpdateBidRating sets the buyer rating on a bid. Repeating the same call
// leaves the rating unchanged.
func (s *BiddingService) UpdateBidRating(ctx context.Context, id string, rating int) error {
	if id == "" {
		return fmt.Errorf("service: %w - empty bid id", farmerrors.ErrInvalidBid)
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("service: %w - rating %d not in 1..5", farmerrors.ErrInvalidRating, rating)
	}

	if err := s.bids.UpdateBidRating(ctx, id, rating); err != nil {
		return fmt.Errorf("service: failed to update rating for bid %s: %w", id, err)
	}
	return nil
}

// project joins buyer email and product/seller names. Lookups are
// best-effort: missing rows leave the projection fields empty.
func (s *BiddingService) project(ctx context.Context, bid models.Bid) View {
	view := View{Bid: bid}

	if buyer, err := s.users.GetBuyer(ctx, bid.BuyerID); err == nil {
		if user, err := s.users.GetUserByID(ctx, buyer.UserID); err == nil {
			view.BuyerEmail = user.Email
		}
	}

	if listing, err := s.listings.GetListing(ctx, bid.AuctionID); err == nil {
		view.ProductName = listing.Name
		if seller, err := s.users.GetSeller(ctx, listing.SellerID); err == nil {
			view.SellerName = seller.SellerName
		}
	}
	return view
}
