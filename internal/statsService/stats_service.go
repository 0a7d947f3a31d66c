package stats

import (
	"context"
	"fmt"
	"time"

	"farmify/internal/models"
	"farmify/internal/pricing"
	"farmify/internal/repository"
)

// Overview is the dashboard metrics object. With an empty store every
// numeric field is zero and every name is empty; MostFrequentBidHour is
// null when no bids exist.
type Overview struct {
	TotalBids                  int     `json:"total_bids"`
	AverageSalePrice           float64 `json:"average_sale_price"`
	AverageRating              float64 `json:"average_rating"`
	MostActiveSeller           string  `json:"most_active_seller"`
	TotalListings              int     `json:"total_listings"`
	ActiveListings             int     `json:"active_listings"`
	HighestSalePrice           float64 `json:"highest_sale_price"`
	TotalRevenue               float64 `json:"total_revenue"`
	HighestRatedSeller         string  `json:"highest_rated_seller"`
	ListingsWithoutBids        int     `json:"listings_without_bids"`
	AverageBidsPerListing      float64 `json:"average_bids_per_listing"`
	MostExpensiveActiveListing string  `json:"most_expensive_active_listing"`
	MostFrequentBidHour        *int    `json:"most_frequent_bid_hour"`
	TopSellingProduct          string  `json:"top_selling_product"`
}

// StatsService computes read-only dashboard metrics in a single pass over
// the bid and listing tables. No caching, no incremental maintenance.
type StatsService struct {
	bids     repository.BidStore
	listings repository.ListingStore
	users    repository.UserStore

	// Now supplies the clock for the active-listing metrics; tests override it.
	Now func() time.Time
}

// NewStatsService creates a new StatsService instance
func NewStatsService(bids repository.BidStore, listings repository.ListingStore, users repository.UserStore) *StatsService {
	return &StatsService{
		bids:     bids,
		listings: listings,
		users:    users,
		Now:      time.Now,
	}
}

// Overview scans bids, listings and sellers and derives the full metric set.
func (s *StatsService) Overview(ctx context.Context) (Overview, error) {
	bids, err := s.bids.ListBids(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("service: failed to load bids: %w", err)
	}
	listings, err := s.listings.ListListings(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("service: failed to load listings: %w", err)
	}
	sellers, err := s.users.ListSellers(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("service: failed to load sellers: %w", err)
	}

	now := s.Now()

	sellerName := make(map[uint]string, len(sellers))
	for _, sel := range sellers {
		sellerName[sel.ID] = sel.SellerName
	}
	listingByID := make(map[uint]models.Product, len(listings))
	for _, l := range listings {
		listingByID[l.ID] = l
	}

	var out Overview
	out.TotalBids = len(bids)
	out.TotalListings = len(listings)

	// Bid pass: price, revenue, rating, per-seller and per-product tallies,
	// bid-hour histogram.
	var priceSum, ratingSum float64
	var ratingCount int
	bidsPerSeller := make(map[uint]int)
	ratingPerSeller := make(map[uint][2]float64) // sum, count
	unitsPerProduct := make(map[uint]int)
	bidsPerListing := make(map[uint]int)
	hourCount := make(map[int]int)

	for _, b := range bids {
		priceSum += b.Price
		if b.Price > out.HighestSalePrice {
			out.HighestSalePrice = b.Price
		}
		out.TotalRevenue += b.Price * float64(b.Amount)
		if b.Rating != nil {
			ratingSum += float64(*b.Rating)
			ratingCount++
		}
		unitsPerProduct[b.AuctionID] += b.Amount
		bidsPerListing[b.AuctionID]++
		hourCount[b.CreatedAt.UTC().Hour()]++

		if l, ok := listingByID[b.AuctionID]; ok {
			bidsPerSeller[l.SellerID]++
			if b.Rating != nil {
				agg := ratingPerSeller[l.SellerID]
				agg[0] += float64(*b.Rating)
				agg[1]++
				ratingPerSeller[l.SellerID] = agg
			}
		}
	}

	if out.TotalBids > 0 {
		out.AverageSalePrice = pricing.RoundCurrency(priceSum / float64(out.TotalBids))
		out.TotalRevenue = pricing.RoundCurrency(out.TotalRevenue)
	}
	if ratingCount > 0 {
		out.AverageRating = ratingSum / float64(ratingCount)
	}
	if out.TotalListings > 0 {
		out.AverageBidsPerListing = float64(out.TotalBids) / float64(out.TotalListings)
	}

	// Listing pass: active window metrics and zero-bid listings.
	var topActivePrice float64
	for _, l := range listings {
		price, phase := pricing.Quote(l.StartPrice, l.EndPrice, l.StartTime, l.EndTime, now)
		if phase == pricing.PhaseActive {
			out.ActiveListings++
			if price > topActivePrice || out.MostExpensiveActiveListing == "" {
				topActivePrice = price
				out.MostExpensiveActiveListing = l.Name
			}
		}
		if bidsPerListing[l.ID] == 0 {
			out.ListingsWithoutBids++
		}
	}

	// Winners of the per-group tallies. Ties resolve to the lower id/hour
	// so repeated scans give stable answers.
	if id, ok := maxByCount(bidsPerSeller); ok {
		out.MostActiveSeller = sellerName[id]
	}
	var bestRating float64 = -1
	var bestRatedSeller uint
	for id, agg := range ratingPerSeller {
		avg := agg[0] / agg[1]
		if avg > bestRating || (avg == bestRating && id < bestRatedSeller) {
			bestRating = avg
			bestRatedSeller = id
		}
	}
	if bestRating >= 0 {
		out.HighestRatedSeller = sellerName[bestRatedSeller]
	}
	if id, ok := maxByCount(unitsPerProduct); ok {
		out.TopSellingProduct = listingByID[id].Name
	}
	if len(hourCount) > 0 {
		bestHour, bestN := 0, -1
		for h, n := range hourCount {
			if n > bestN || (n == bestN && h < bestHour) {
				bestHour, bestN = h, n
			}
		}
		out.MostFrequentBidHour = &bestHour
	}

	return out, nil
}

func maxByCount(counts map[uint]int) (uint, bool) {
	var bestID uint
	bestN := -1
	for id, n := range counts {
		if n > bestN || (n == bestN && id < bestID) {
			bestID, bestN = id, n
		}
	}
	return bestID, bestN >= 0
}
