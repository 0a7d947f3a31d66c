package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"farmify/internal/auth"
	"farmify/internal/farmerrors"
	model "farmify/internal/models"
	"farmify/internal/repository"
)

func newTestService() (*AccountService, *repository.MemoryRepo) {
	repo := repository.NewMemoryRepo()
	issuer := auth.NewTokenIssuer("test-secret", 24)
	return NewAccountService(repo, repo, issuer), repo
}

func TestAccountService_Register(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService()

	tests := []struct {
		name          string
		input         RegisterInput
		expectedError error
	}{
		{
			name: "valid_buyer",
			input: RegisterInput{
				Email:       "Buyer@Example.com",
				Username:    "buyer1",
				Password:    "hunter22",
				AccountType: model.AccountTypeBuyer,
				Address:     "2 Market St",
			},
		},
		{
			name: "valid_seller",
			input: RegisterInput{
				Email:         "seller@example.com",
				Username:      "seller1",
				Password:      "hunter22",
				AccountType:   model.AccountTypeSeller,
				SellerName:    "Green Acres",
				PayPalAccount: "greenacres@example.com",
			},
		},
		{
			name: "missing_password",
			input: RegisterInput{
				Email:       "noone@example.com",
				Username:    "noone",
				AccountType: model.AccountTypeBuyer,
			},
			expectedError: farmerrors.ErrInvalidAccount,
		},
		{
			name: "unknown_account_type",
			input: RegisterInput{
				Email:       "noone@example.com",
				Username:    "noone",
				Password:    "hunter22",
				AccountType: "admin",
			},
			expectedError: farmerrors.ErrInvalidAccount,
		},
		{
			name: "duplicate_email",
			input: RegisterInput{
				Email:       "buyer@example.com",
				Username:    "buyer2",
				Password:    "hunter22",
				AccountType: model.AccountTypeBuyer,
			},
			expectedError: farmerrors.ErrDuplicateEmail,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			user, err := service.Register(ctx, tc.input)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			require.NotZero(t, user.ID)
			// Emails are stored lowercased; passwords only as hashes.
			if tc.input.AccountType == model.AccountTypeSeller {
				require.Equal(t, "seller@example.com", user.Email)
				require.NotNil(t, user.Seller)
				require.Equal(t, "Green Acres", user.Seller.SellerName)
			} else {
				require.Equal(t, "buyer@example.com", user.Email)
				require.NotNil(t, user.Buyer)
				require.Equal(t, "2 Market St", user.Buyer.Address)
			}
			require.NotEqual(t, tc.input.Password, user.PasswordHash)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tc.input.Password)))
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService()

	_, err := service.Register(ctx, RegisterInput{
		Email:       "buyer@example.com",
		Username:    "buyer1",
		Password:    "hunter22",
		AccountType: model.AccountTypeBuyer,
	})
	require.NoError(t, err)

	token, user, err := service.Login(ctx, "Buyer@Example.COM", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "buyer@example.com", user.Email)

	_, _, err = service.Login(ctx, "buyer@example.com", "wrong")
	require.ErrorIs(t, err, farmerrors.ErrBadCredentials)

	// Unknown accounts fail the same way as bad passwords.
	_, _, err = service.Login(ctx, "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, farmerrors.ErrBadCredentials)
}

func TestAccountService_UpdateProfiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService()

	buyer, err := service.Register(ctx, RegisterInput{
		Email:       "buyer@example.com",
		Username:    "buyer1",
		Password:    "hunter22",
		AccountType: model.AccountTypeBuyer,
		Address:     "2 Market St",
	})
	require.NoError(t, err)

	seller, err := service.Register(ctx, RegisterInput{
		Email:       "seller@example.com",
		Username:    "seller1",
		Password:    "hunter22",
		AccountType: model.AccountTypeSeller,
		SellerName:  "Green Acres",
	})
	require.NoError(t, err)

	newAddr := "9 Orchard Ln"
	updatedBuyer, err := service.UpdateBuyerProfile(ctx, buyer.ID, BuyerUpdate{Address: &newAddr})
	require.NoError(t, err)
	require.Equal(t, newAddr, updatedBuyer.Address)
	require.Equal(t, "active", updatedBuyer.Status)

	got, err := service.GetBuyerProfile(ctx, buyer.ID)
	require.NoError(t, err)
	require.Equal(t, newAddr, got.Buyer.Address)

	// A buyer has no seller profile and vice versa.
	_, err = service.GetSellerProfile(ctx, buyer.ID)
	require.ErrorIs(t, err, farmerrors.ErrUserNotFound)
	_, err = service.GetBuyerProfile(ctx, seller.ID)
	require.ErrorIs(t, err, farmerrors.ErrUserNotFound)

	newName := "Greener Acres"
	updatedSeller, err := service.UpdateSellerContact(ctx, seller.ID, SellerContactUpdate{SellerName: &newName})
	require.NoError(t, err)
	require.Equal(t, newName, updatedSeller.SellerName)

	desc := "organic produce"
	paypal := "pay@greeneracres.example.com"
	updatedSeller, err = service.UpdateSellerBusiness(ctx, seller.ID, SellerBusinessUpdate{Description: &desc, PayPalAccount: &paypal})
	require.NoError(t, err)
	require.Equal(t, desc, updatedSeller.Description)
	require.Equal(t, paypal, updatedSeller.PayPalAccount)

	_, err = service.GetBuyerProfile(ctx, 999)
	require.ErrorIs(t, err, farmerrors.ErrUserNotFound)
}

func TestAccountService_Cards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService()

	buyer, err := service.Register(ctx, RegisterInput{
		Email:       "buyer@example.com",
		Username:    "buyer1",
		Password:    "hunter22",
		AccountType: model.AccountTypeBuyer,
	})
	require.NoError(t, err)

	tests := []struct {
		name          string
		input         CardInput
		expectedError error
	}{
		{
			name:  "valid_card",
			input: CardInput{CardNumber: "4111 1111 1111 1111", CVV: "123", ExpiryMonth: 12, ExpiryYear: 2030},
		},
		{
			name:          "short_pan",
			input:         CardInput{CardNumber: "4111", CVV: "123", ExpiryMonth: 12, ExpiryYear: 2030},
			expectedError: farmerrors.ErrInvalidCard,
		},
		{
			name:          "letters_in_pan",
			input:         CardInput{CardNumber: "4111x11111111111", CVV: "123", ExpiryMonth: 12, ExpiryYear: 2030},
			expectedError: farmerrors.ErrInvalidCard,
		},
		{
			name:          "bad_cvv",
			input:         CardInput{CardNumber: "4111111111111111", CVV: "12", ExpiryMonth: 12, ExpiryYear: 2030},
			expectedError: farmerrors.ErrInvalidCard,
		},
		{
			name:          "bad_expiry_month",
			input:         CardInput{CardNumber: "4111111111111111", CVV: "123", ExpiryMonth: 13, ExpiryYear: 2030},
			expectedError: farmerrors.ErrInvalidCard,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			card, err := service.AddCard(ctx, buyer.ID, tc.input)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "1111", card.Last4)
			require.NotEmpty(t, card.Token)
			require.Equal(t, 12, card.ExpiryMonth)
		})
	}

	cards, err := service.ListCards(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	require.NoError(t, service.UpdateCard(ctx, buyer.ID, cards[0].ID, 6, 2031))
	cards, err = service.ListCards(ctx, buyer.ID)
	require.NoError(t, err)
	require.Equal(t, 6, cards[0].ExpiryMonth)
	require.Equal(t, 2031, cards[0].ExpiryYear)

	// Another user cannot touch this card.
	err = service.UpdateCard(ctx, 999, cards[0].ID, 7, 2031)
	require.ErrorIs(t, err, farmerrors.ErrCardNotFound)
	err = service.DeleteCard(ctx, 999, cards[0].ID)
	require.ErrorIs(t, err, farmerrors.ErrCardNotFound)

	require.NoError(t, service.DeleteCard(ctx, buyer.ID, cards[0].ID))
	cards, err = service.ListCards(ctx, buyer.ID)
	require.NoError(t, err)
	require.Empty(t, cards)
}
