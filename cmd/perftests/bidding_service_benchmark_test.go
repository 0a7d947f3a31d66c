package perftests

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	bidding "farmify/internal/biddingService"
	listing "farmify/internal/listingService"
	model "farmify/internal/models"
	repository "farmify/internal/repository"
)

func seedListings(repo *repository.MemoryRepo, sellerID uint, n int) {
	start := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < n; i++ {
		repo.AddListing(model.Product{
			Name:       fmt.Sprintf("product_%d", i),
			SellerID:   sellerID,
			Quantity:   1000,
			StartPrice: 100,
			EndPrice:   10,
			StartTime:  start,
			EndTime:    start.Add(24 * time.Hour),
		})
	}
}

// Benchmark 1: PlaceBid - Isolated Listings (Low Contention - Micro Benchmark)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	svc := bidding.NewBiddingService(repo, repo, repo)

	sellerID := repo.AddSeller(model.Seller{SellerName: "Bench Farm"})
	buyerID := repo.AddBuyer(model.Buyer{})
	seedListings(repo, sellerID, b.N)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		auctionID := uint(i + 1)
		price := float64(10 + rand.Intn(90))
		if _, err := svc.PlaceBid(ctx, buyerID, auctionID, 1, price, ""); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid - Shared Listing (High Contention - Concurrency Benchmark)
func Benchmark_PlaceBid_ConcurrentSharedListing(b *testing.B) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	svc := bidding.NewBiddingService(repo, repo, repo)

	sellerID := repo.AddSeller(model.Seller{SellerName: "Bench Farm"})
	buyerID := repo.AddBuyer(model.Buyer{})
	seedListings(repo, sellerID, 1)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			price := float64(10 + rnd.Intn(90))
			_, _ = svc.PlaceBid(ctx, buyerID, 1, 1, price, "")
		}
	})
}

// Benchmark 3: GetListing - Single-Threaded (Low Contention)
func Benchmark_GetListing_SingleThreaded(b *testing.B) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	svc := listing.NewListingService(repo, repo)

	sellerID := repo.AddSeller(model.Seller{SellerName: "Bench Farm"})
	seedListings(repo, sellerID, b.N)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.GetListing(ctx, uint(i+1)); err != nil {
			b.Fatalf("failed to get listing: %v", err)
		}
	}
}

// Benchmark 4: GetListing - Concurrent (High Contention)
func Benchmark_GetListing_ConcurrentSharedListing(b *testing.B) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	bidSvc := bidding.NewBiddingService(repo, repo, repo)
	listSvc := listing.NewListingService(repo, repo)

	sellerID := repo.AddSeller(model.Seller{SellerName: "Bench Farm"})
	buyerID := repo.AddBuyer(model.Buyer{})
	seedListings(repo, sellerID, 1)

	for j := 0; j < 100; j++ {
		_, _ = bidSvc.PlaceBid(ctx, buyerID, 1, 1, float64(10+j), "")
	}

	b.ReportAllocs()
	b.ResetTimer()

	var counter int64

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := listSvc.GetListing(ctx, 1); err != nil {
				b.Fatalf("failed to get listing: %v", err)
			}
			atomic.AddInt64(&counter, 1)
		}
	})
}

// Benchmark 5: Mixed Workload (Readers + Writers concurrently)
func Benchmark_MixedWorkload_SharedListing(b *testing.B) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	bidSvc := bidding.NewBiddingService(repo, repo, repo)
	listSvc := listing.NewListingService(repo, repo)

	sellerID := repo.AddSeller(model.Seller{SellerName: "Bench Farm"})
	buyerID := repo.AddBuyer(model.Buyer{})
	seedListings(repo, sellerID, 1)

	for j := 0; j < 50; j++ {
		_, _ = bidSvc.PlaceBid(ctx, buyerID, 1, 1, float64(10+j), "")
	}

	b.ReportAllocs()
	b.ResetTimer()

	var counter int64

	// Ratio: 70% readers, 30% writers
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			opType := rnd.Intn(10)
			switch {
			case opType < 3:
				price := float64(10 + rnd.Intn(90))
				_, _ = bidSvc.PlaceBid(ctx, buyerID, 1, 1, price, "")
			default:
				_, _ = listSvc.GetListing(ctx, 1)
			}
			atomic.AddInt64(&counter, 1)
		}
	})
}
