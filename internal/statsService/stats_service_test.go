package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	model "farmify/internal/models"
	"farmify/internal/repository"
	"farmify/utils"
)

func TestStatsService_Overview_Empty(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	service := NewStatsService(repo, repo, repo)

	out, err := service.Overview(context.Background())
	require.NoError(t, err)

	require.Zero(t, out.TotalBids)
	require.Zero(t, out.TotalListings)
	require.Zero(t, out.ActiveListings)
	require.Zero(t, out.TotalRevenue)
	require.Zero(t, out.AverageSalePrice)
	require.Zero(t, out.AverageRating)
	require.Zero(t, out.AverageBidsPerListing)
	require.Empty(t, out.MostActiveSeller)
	require.Empty(t, out.HighestRatedSeller)
	require.Empty(t, out.TopSellingProduct)
	require.Empty(t, out.MostExpensiveActiveListing)
	require.Nil(t, out.MostFrequentBidHour)
}

func TestStatsService_Overview(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	service := NewStatsService(repo, repo, repo)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.Now = func() time.Time { return now }

	greenID := repo.AddSeller(model.Seller{SellerName: "Green Acres"})
	hillID := repo.AddSeller(model.Seller{SellerName: "Hillside Dairy"})
	buyerID := repo.AddBuyer(model.Buyer{Address: "2 Market St"})

	// Two active listings, one ended, one never bid on.
	tomatoesID := repo.AddListing(model.Product{
		Name: "Tomatoes", SellerID: greenID, StartPrice: 10, EndPrice: 2,
		StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour),
	})
	repo.AddListing(model.Product{
		Name: "Honey", SellerID: hillID, StartPrice: 20, EndPrice: 15,
		StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour),
	})
	cheeseID := repo.AddListing(model.Product{
		Name: "Cheese", SellerID: hillID, StartPrice: 8, EndPrice: 4,
		StartTime: now.Add(-3 * time.Hour), EndTime: now.Add(-2 * time.Hour),
	})
	repo.AddListing(model.Product{
		Name: "Eggs", SellerID: greenID, StartPrice: 5, EndPrice: 3,
		StartTime: now.Add(-time.Hour), EndTime: now.Add(-time.Minute),
	})

	five, three := 5, 3
	bids := []model.Bid{
		{ID: utils.GenerateID(), BuyerID: buyerID, AuctionID: tomatoesID, Amount: 2, Price: 6, Rating: &five, CreatedAt: now.Add(-30 * time.Minute)},
		{ID: utils.GenerateID(), BuyerID: buyerID, AuctionID: tomatoesID, Amount: 1, Price: 4, Rating: &three, CreatedAt: now.Add(-20 * time.Minute)},
		{ID: utils.GenerateID(), BuyerID: buyerID, AuctionID: cheeseID, Amount: 4, Price: 5, CreatedAt: now.Add(-150 * time.Minute)},
	}
	for _, b := range bids {
		require.NoError(t, repo.RecordBid(ctx, b))
	}

	out, err := service.Overview(ctx)
	require.NoError(t, err)

	require.Equal(t, 3, out.TotalBids)
	require.Equal(t, 4, out.TotalListings)
	require.Equal(t, 2, out.ActiveListings)
	// 6 + 4 + 5 over three bids
	require.InDelta(t, 5.0, out.AverageSalePrice, 0.001)
	// 2*6 + 1*4 + 4*5
	require.InDelta(t, 36.0, out.TotalRevenue, 0.001)
	require.InDelta(t, 6.0, out.HighestSalePrice, 0.001)
	require.InDelta(t, 4.0, out.AverageRating, 0.001)
	require.InDelta(t, 0.75, out.AverageBidsPerListing, 0.001)
	require.Equal(t, 2, out.ListingsWithoutBids)

	// Green Acres holds both tomato bids; its bids are the only rated ones.
	require.Equal(t, "Green Acres", out.MostActiveSeller)
	require.Equal(t, "Green Acres", out.HighestRatedSeller)
	// Cheese moved 4 units against 3 tomato units.
	require.Equal(t, "Cheese", out.TopSellingProduct)
	// Honey quotes 17.50 at the pinned clock, Tomatoes 6.00.
	require.Equal(t, "Honey", out.MostExpensiveActiveListing)

	require.NotNil(t, out.MostFrequentBidHour)
	require.Equal(t, 11, *out.MostFrequentBidHour)
}

func TestStatsService_TieBreaks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	service := NewStatsService(repo, repo, repo)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.Now = func() time.Time { return now }

	firstID := repo.AddSeller(model.Seller{SellerName: "First Farm"})
	secondID := repo.AddSeller(model.Seller{SellerName: "Second Farm"})
	buyerID := repo.AddBuyer(model.Buyer{})

	aID := repo.AddListing(model.Product{
		Name: "Apples", SellerID: firstID, StartPrice: 4, EndPrice: 2,
		StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour),
	})
	bID := repo.AddListing(model.Product{
		Name: "Pears", SellerID: secondID, StartPrice: 4, EndPrice: 2,
		StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour),
	})

	// One bid each, same units, same hour: every tally is tied.
	require.NoError(t, repo.RecordBid(ctx, model.Bid{
		ID: utils.GenerateID(), BuyerID: buyerID, AuctionID: bID, Amount: 1, Price: 3, CreatedAt: now,
	}))
	require.NoError(t, repo.RecordBid(ctx, model.Bid{
		ID: utils.GenerateID(), BuyerID: buyerID, AuctionID: aID, Amount: 1, Price: 3, CreatedAt: now,
	}))

	out, err := service.Overview(ctx)
	require.NoError(t, err)

	// Ties resolve to the lower id so repeated scans agree.
	require.Equal(t, "First Farm", out.MostActiveSeller)
	require.Equal(t, "Apples", out.TopSellingProduct)
}
