package listing

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"farmify/internal/farmerrors"
	model "farmify/internal/models"
	"farmify/internal/pricing"
	"farmify/internal/repository"
)

// Tests CreateListing validation
func TestListingService_CreateListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockListings := repository.NewMockListingStore(ctrl)
	repo := repository.NewMemoryRepo()
	service := NewListingService(mockListings, repo)

	ctx := context.Background()
	start := time.Now().UTC()

	valid := model.Product{
		Name:       "Heirloom Tomatoes",
		SellerID:   1,
		Quantity:   10,
		StartPrice: 10,
		EndPrice:   2,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	}

	tests := []struct {
		name          string
		mutate        func(p model.Product) model.Product
		mockSetup     func()
		expectedError error
	}{
		{
			name:   "valid_listing",
			mutate: func(p model.Product) model.Product { return p },
			mockSetup: func() {
				mockListings.EXPECT().CreateListing(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:          "zero_start_price",
			mutate:        func(p model.Product) model.Product { p.StartPrice = 0; return p },
			mockSetup:     func() {},
			expectedError: farmerrors.ErrInvalidListing,
		},
		{
			name:          "negative_end_price",
			mutate:        func(p model.Product) model.Product { p.EndPrice = -1; return p },
			mockSetup:     func() {},
			expectedError: farmerrors.ErrInvalidListing,
		},
		{
			name:          "window_inverted",
			mutate:        func(p model.Product) model.Product { p.EndTime = p.StartTime.Add(-time.Minute); return p },
			mockSetup:     func() {},
			expectedError: farmerrors.ErrInvalidListing,
		},
		{
			name:          "window_zero_duration",
			mutate:        func(p model.Product) model.Product { p.EndTime = p.StartTime; return p },
			mockSetup:     func() {},
			expectedError: farmerrors.ErrInvalidListing,
		},
		{
			name:          "missing_name",
			mutate:        func(p model.Product) model.Product { p.Name = ""; return p },
			mockSetup:     func() {},
			expectedError: farmerrors.ErrInvalidListing,
		},
		{
			name:          "missing_seller",
			mutate:        func(p model.Product) model.Product { p.SellerID = 0; return p },
			mockSetup:     func() {},
			expectedError: farmerrors.ErrInvalidListing,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			_, err := service.CreateListing(ctx, tc.mutate(valid))
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// Tests the seller projection and live quote on reads
func TestListingService_GetListing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	service := NewListingService(repo, repo)

	sellerID := repo.AddSeller(model.Seller{
		SellerName:    "Green Acres",
		Description:   "organic produce",
		Address:       "1 Farm Rd",
		PayPalAccount: "greenacres@example.com",
	})

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	listingID := repo.AddListing(model.Product{
		Name:       "Heirloom Tomatoes",
		SellerID:   sellerID,
		Quantity:   10,
		StartPrice: 10,
		EndPrice:   2,
		StartTime:  start,
		EndTime:    start.Add(60 * time.Minute),
	})

	// Pin the clock to the window midpoint: price must be 6.00.
	service.Now = func() time.Time { return start.Add(30 * time.Minute) }

	view, err := service.GetListing(ctx, listingID)
	require.NoError(t, err)
	require.Equal(t, "Green Acres", view.SellerName)
	require.Equal(t, "organic produce", view.SellerDescription)
	require.Equal(t, "1 Farm Rd", view.SellerAddress)
	require.Equal(t, "greenacres@example.com", view.PayPalAccount)
	require.Equal(t, pricing.PhaseActive, view.Phase)
	require.NotNil(t, view.CurrentPrice)
	require.InDelta(t, 6.00, *view.CurrentPrice, 0.001)

	// Before the window there is no numeric price.
	service.Now = func() time.Time { return start.Add(-time.Minute) }
	view, err = service.GetListing(ctx, listingID)
	require.NoError(t, err)
	require.Equal(t, pricing.PhaseNotStarted, view.Phase)
	require.Nil(t, view.CurrentPrice)

	// After the window the listing reads as ended.
	service.Now = func() time.Time { return start.Add(2 * time.Hour) }
	view, err = service.GetListing(ctx, listingID)
	require.NoError(t, err)
	require.Equal(t, pricing.PhaseEnded, view.Phase)
	require.Nil(t, view.CurrentPrice)

	_, err = service.GetListing(ctx, 999)
	require.ErrorIs(t, err, farmerrors.ErrListingNotFound)
}

func TestListingService_ListListings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	service := NewListingService(repo, repo)

	views, err := service.ListListings(ctx)
	require.NoError(t, err)
	require.Empty(t, views)

	sellerID := repo.AddSeller(model.Seller{SellerName: "Green Acres"})
	start := time.Now().UTC().Add(-time.Hour)
	repo.AddListing(model.Product{Name: "Tomatoes", SellerID: sellerID, StartPrice: 10, EndPrice: 2, StartTime: start, EndTime: start.Add(2 * time.Hour)})
	repo.AddListing(model.Product{Name: "Honey", SellerID: sellerID, StartPrice: 8, EndPrice: 4, StartTime: start, EndTime: start.Add(30 * time.Minute)})

	views, err = service.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, pricing.PhaseActive, views[0].Phase)
	require.Equal(t, pricing.PhaseEnded, views[1].Phase)
	require.Equal(t, "Green Acres", views[0].SellerName)
}
