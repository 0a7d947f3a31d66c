package account

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"farmify/internal/auth"
	"farmify/internal/farmerrors"
	"farmify/internal/models"
	"farmify/internal/repository"
	"farmify/utils"
)

// RegisterInput carries the fields needed to create an account with its
// buyer or seller profile.
type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	AccountType string
	Address     string
	// Seller-only fields
	SellerName    string
	Description   string
	PayPalAccount string
}

// BuyerUpdate applies partial updates to a buyer profile; nil fields are
// left untouched.
type BuyerUpdate struct {
	Address *string
	Status  *string
}

// SellerContactUpdate applies partial updates to a seller's contact info.
type SellerContactUpdate struct {
	SellerName *string
	Address    *string
}

// SellerBusinessUpdate applies partial updates to a seller's business info.
type SellerBusinessUpdate struct {
	Description   *string
	PayPalAccount *string
	Status        *string
}

// CardInput carries raw card details over the wire. Only a token, the
// last four digits and the expiry survive into storage.
type CardInput struct {
	CardNumber  string
	CVV         string
	ExpiryMonth int
	ExpiryYear  int
}

// AccountService defines the business logic for users, profiles and
// payment methods.
type AccountService struct {
	users  repository.UserStore
	cards  repository.CardStore
	issuer *auth.TokenIssuer
}

// NewAccountService creates a new AccountService instance
func NewAccountService(users repository.UserStore, cards repository.CardStore, issuer *auth.TokenIssuer) *AccountService {
	return &AccountService{
		users:  users,
		cards:  cards,
		issuer: issuer,
	}
}

// Register creates a user plus the profile matching its account type.
// Passwords are stored only as bcrypt hashes.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if in.Email == "" || in.Username == "" || in.Password == "" {
		return models.User{}, fmt.Errorf("service: %w - missing email, username or password", farmerrors.ErrInvalidAccount)
	}
	if in.AccountType != models.AccountTypeBuyer && in.AccountType != models.AccountTypeSeller {
		return models.User{}, fmt.Errorf("service: %w - unknown account type %q", farmerrors.ErrInvalidAccount, in.AccountType)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to hash password: %w", err)
	}

	user := models.User{
		Email:        strings.ToLower(in.Email),
		Username:     in.Username,
		PasswordHash: string(hash),
		AccountType:  in.AccountType,
	}
	switch in.AccountType {
	case models.AccountTypeBuyer:
		user.Buyer = &models.Buyer{Address: in.Address, Status: "active"}
	case models.AccountTypeSeller:
		user.Seller = &models.Seller{
			SellerName:    in.SellerName,
			Address:       in.Address,
			Description:   in.Description,
			PayPalAccount: in.PayPalAccount,
			Status:        "active",
		}
	}

	if err := s.users.CreateUser(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("service: failed to register %s: %w", in.Email, err)
	}
	return user, nil
}

// Login verifies credentials and returns a signed session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", models.User{}, fmt.Errorf("service: %w", farmerrors.ErrBadCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.User{}, fmt.Errorf("service: %w", farmerrors.ErrBadCredentials)
	}

	token, err := s.issuer.Issue(user.ID, user.Email, user.AccountType)
	if err != nil {
		return "", models.User{}, fmt.Errorf("service: failed to issue session token: %w", err)
	}
	return token, user, nil
}

// GetBuyerProfile returns the buyer profile of the session user.
func (s *AccountService) GetBuyerProfile(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: %w", err)
	}
	if user.Buyer == nil {
		return models.User{}, fmt.Errorf("service: user %d has no buyer profile: %w", userID, farmerrors.ErrUserNotFound)
	}
	return user, nil
}

// UpdateBuyerProfile applies the provided fields to the buyer profile.
func (s *AccountService) UpdateBuyerProfile(ctx context.Context, userID uint, upd BuyerUpdate) (models.Buyer, error) {
	user, err := s.GetBuyerProfile(ctx, userID)
	if err != nil {
		return models.Buyer{}, err
	}

	buyer := *user.Buyer
	if upd.Address != nil {
		buyer.Address = *upd.Address
	}
	if upd.Status != nil {
		buyer.Status = *upd.Status
	}
	if err := s.users.UpdateBuyer(ctx, buyer); err != nil {
		return models.Buyer{}, fmt.Errorf("service: failed to update buyer for user %d: %w", userID, err)
	}
	return buyer, nil
}

// GetSellerProfile returns the seller profile of the session user.
func (s *AccountService) GetSellerProfile(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: %w", err)
	}
	if user.Seller == nil {
		return models.User{}, fmt.Errorf("service: user %d has no seller profile: %w", userID, farmerrors.ErrUserNotFound)
	}
	return user, nil
}

// UpdateSellerContact applies the provided contact fields to the seller
// profile of the session user.
func (s *AccountService) UpdateSellerContact(ctx context.Context, userID uint, upd SellerContactUpdate) (models.Seller, error) {
	user, err := s.GetSellerProfile(ctx, userID)
	if err != nil {
		return models.Seller{}, err
	}

	seller := *user.Seller
	if upd.SellerName != nil {
		seller.SellerName = *upd.SellerName
	}
	if upd.Address != nil {
		seller.Address = *upd.Address
	}
	if err := s.users.UpdateSeller(ctx, seller); err != nil {
		return models.Seller{}, fmt.Errorf("service: failed to update seller for user %d: %w", userID, err)
	}
	return seller, nil
}

// UpdateSellerBusiness applies the provided business fields to the seller
// profile of the session user.
func (s *AccountService) UpdateSellerBusiness(ctx context.Context, userID uint, upd SellerBusinessUpdate) (models.Seller, error) {
	user, err := s.GetSellerProfile(ctx, userID)
	if err != nil {
		return models.Seller{}, err
	}

	seller := *user.Seller
	if upd.Description != nil {
		seller.Description = *upd.Description
	}
	if upd.PayPalAccount != nil {
		seller.PayPalAccount = *upd.PayPalAccount
	}
	if upd.Status != nil {
		seller.Status = *upd.Status
	}
	if err := s.users.UpdateSeller(ctx, seller); err != nil {
		return models.Seller{}, fmt.Errorf("service: failed to update seller for user %d: %w", userID, err)
	}
	return seller, nil
}

// ListCards returns the session user's stored payment methods.
func (s *AccountService) ListCards(ctx context.Context, userID uint) ([]models.CreditCard, error) {
	cards, err := s.cards.ListCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list cards for user %d: %w", userID, err)
	}
	if cards == nil {
		cards = []models.CreditCard{}
	}
	return cards, nil
}

// AddCard tokenizes and stores a payment method. The PAN is reduced to its
// last four digits and the CVV is discarded after validation.
func (s *AccountService) AddCard(ctx context.Context, userID uint, in CardInput) (models.CreditCard, error) {
	pan := strings.ReplaceAll(in.CardNumber, " ", "")
	if len(pan) < 12 || len(pan) > 19 || !digitsOnly(pan) {
		return models.CreditCard{}, fmt.Errorf("service: %w - bad card number", farmerrors.ErrInvalidCard)
	}
	if l := len(in.CVV); l < 3 || l > 4 || !digitsOnly(in.CVV) {
		return models.CreditCard{}, fmt.Errorf("service: %w - bad cvv", farmerrors.ErrInvalidCard)
	}
	if in.ExpiryMonth < 1 || in.ExpiryMonth > 12 || in.ExpiryYear < 2000 {
		return models.CreditCard{}, fmt.Errorf("service: %w - bad expiry", farmerrors.ErrInvalidCard)
	}

	card := models.CreditCard{
		UserID:      userID,
		Token:       utils.GenerateID(),
		Last4:       pan[len(pan)-4:],
		ExpiryMonth: in.ExpiryMonth,
		ExpiryYear:  in.ExpiryYear,
	}
	if err := s.cards.CreateCard(ctx, &card); err != nil {
		return models.CreditCard{}, fmt.Errorf("service: failed to store card for user %d: %w", userID, err)
	}
	return card, nil
}

// UpdateCard updates the expiry of a stored card owned by the session user.
func (s *AccountService) UpdateCard(ctx context.Context, userID, cardID uint, expiryMonth, expiryYear int) error {
	if expiryMonth < 1 || expiryMonth > 12 || expiryYear < 2000 {
		return fmt.Errorf("service: %w - bad expiry", farmerrors.ErrInvalidCard)
	}
	card := models.CreditCard{ID: cardID, UserID: userID, ExpiryMonth: expiryMonth, ExpiryYear: expiryYear}
	if err := s.cards.UpdateCard(ctx, card); err != nil {
		return fmt.Errorf("service: failed to update card %d: %w", cardID, err)
	}
	return nil
}

// DeleteCard removes a stored card owned by the session user.
func (s *AccountService) DeleteCard(ctx context.Context, userID, cardID uint) error {
	if err := s.cards.DeleteCard(ctx, userID, cardID); err != nil {
		return fmt.Errorf("service: failed to delete card %d: %w", cardID, err)
	}
	return nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
