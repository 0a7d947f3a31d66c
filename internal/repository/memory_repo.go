package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"farmify/internal/farmerrors"
	model "farmify/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of MarketDB.
// It backs tests and local runs without a database.
type MemoryRepo struct {
	mu       sync.RWMutex
	listings map[uint]model.Product
	bids     map[string]model.Bid
	bidOrder []string
	users    map[uint]model.User
	buyers   map[uint]model.Buyer  // key: buyer ID
	sellers  map[uint]model.Seller // key: seller ID
	cards    map[uint]model.CreditCard
	orders   map[string]model.Order
	orderKey map[string]string // idempotency key -> order ID

	nextListing uint
	nextUser    uint
	nextBuyer   uint
	nextSeller  uint
	nextCard    uint
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		listings: make(map[uint]model.Product),
		bids:     make(map[string]model.Bid),
		users:    make(map[uint]model.User),
		buyers:   make(map[uint]model.Buyer),
		sellers:  make(map[uint]model.Seller),
		cards:    make(map[uint]model.CreditCard),
		orders:   make(map[string]model.Order),
		orderKey: make(map[string]string),
	}
}

// CreateListing persists a listing with a server-assigned id.
func (r *MemoryRepo) CreateListing(_ context.Context, listing *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextListing++
	listing.ID = r.nextListing
	r.listings[listing.ID] = *listing
	return nil
}

// GetListing returns a listing by id.
func (r *MemoryRepo) GetListing(_ context.Context, id uint) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return model.Product{}, fmt.Errorf("get listing %d: %w", id, farmerrors.ErrListingNotFound)
	}
	return listing, nil
}

// ListListings returns all listings.
func (r *MemoryRepo) ListListings(_ context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := make([]model.Product, 0, len(r.listings))
	for id := uint(1); id <= r.nextListing; id++ {
		if l, ok := r.listings[id]; ok {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

// RecordBid records a bid against a listing.
func (r *MemoryRepo) RecordBid(_ context.Context, bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bids[bid.ID] = bid
	r.bidOrder = append(r.bidOrder, bid.ID)
	return nil
}

// GetBid returns a bid by id.
func (r *MemoryRepo) GetBid(_ context.Context, id string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bid, ok := r.bids[id]
	if !ok {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", id, farmerrors.ErrBidNotFound)
	}
	return bid, nil
}

// ListBids returns all bids in insertion order.
func (r *MemoryRepo) ListBids(_ context.Context) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := make([]model.Bid, 0, len(r.bidOrder))
	for _, id := range r.bidOrder {
		bids = append(bids, r.bids[id])
	}
	return bids, nil
}

// UpdateBidRating sets the rating on an existing bid.
func (r *MemoryRepo) UpdateBidRating(_ context.Context, id string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bid, ok := r.bids[id]
	if !ok {
		return fmt.Errorf("update rating for bid %s: %w", id, farmerrors.ErrBidNotFound)
	}
	bid.Rating = &rating
	r.bids[id] = bid
	return nil
}

// CreateUser persists a user with its buyer or seller profile.
func (r *MemoryRepo) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return fmt.Errorf("create user %s: %w", user.Email, farmerrors.ErrDuplicateEmail)
		}
	}

	r.nextUser++
	user.ID = r.nextUser
	user.CreatedAt = time.Now().UTC()

	if user.Buyer != nil {
		r.nextBuyer++
		user.Buyer.ID = r.nextBuyer
		user.Buyer.UserID = user.ID
		r.buyers[user.Buyer.ID] = *user.Buyer
	}
	if user.Seller != nil {
		r.nextSeller++
		user.Seller.ID = r.nextSeller
		user.Seller.UserID = user.ID
		r.sellers[user.Seller.ID] = *user.Seller
	}

	r.users[user.ID] = *user
	return nil
}

// GetUserByEmail returns a user with its profile by email.
func (r *MemoryRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return r.withProfiles(u), nil
		}
	}
	return model.User{}, fmt.Errorf("get user by email %s: %w", email, farmerrors.ErrUserNotFound)
}

// GetUserByID returns a user with its profile by id.
func (r *MemoryRepo) GetUserByID(_ context.Context, id uint) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("get user %d: %w", id, farmerrors.ErrUserNotFound)
	}
	return r.withProfiles(u), nil
}

// withProfiles attaches buyer/seller rows; callers must hold the lock.
func (r *MemoryRepo) withProfiles(u model.User) model.User {
	for _, b := range r.buyers {
		if b.UserID == u.ID {
			buyer := b
			u.Buyer = &buyer
			break
		}
	}
	for _, s := range r.sellers {
		if s.UserID == u.ID {
			seller := s
			u.Seller = &seller
			break
		}
	}
	return u
}

// GetBuyer returns a buyer profile by buyer id.
func (r *MemoryRepo) GetBuyer(_ context.Context, buyerID uint) (model.Buyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buyer, ok := r.buyers[buyerID]
	if !ok {
		return model.Buyer{}, fmt.Errorf("get buyer %d: %w", buyerID, farmerrors.ErrUserNotFound)
	}
	return buyer, nil
}

// UpdateBuyer replaces a buyer profile.
func (r *MemoryRepo) UpdateBuyer(_ context.Context, buyer model.Buyer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.buyers[buyer.ID]; !ok {
		return fmt.Errorf("update buyer %d: %w", buyer.ID, farmerrors.ErrUserNotFound)
	}
	r.buyers[buyer.ID] = buyer
	return nil
}

// UpdateSeller replaces a seller profile.
func (r *MemoryRepo) UpdateSeller(_ context.Context, seller model.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sellers[seller.ID]; !ok {
		return fmt.Errorf("update seller %d: %w", seller.ID, farmerrors.ErrUserNotFound)
	}
	r.sellers[seller.ID] = seller
	return nil
}

// GetSeller returns a seller profile by seller id.
func (r *MemoryRepo) GetSeller(_ context.Context, sellerID uint) (model.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seller, ok := r.sellers[sellerID]
	if !ok {
		return model.Seller{}, fmt.Errorf("get seller %d: %w", sellerID, farmerrors.ErrUserNotFound)
	}
	return seller, nil
}

// ListSellers returns all seller profiles.
func (r *MemoryRepo) ListSellers(_ context.Context) ([]model.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sellers := make([]model.Seller, 0, len(r.sellers))
	for id := uint(1); id <= r.nextSeller; id++ {
		if s, ok := r.sellers[id]; ok {
			sellers = append(sellers, s)
		}
	}
	return sellers, nil
}

// ListCards returns a user's payment cards.
func (r *MemoryRepo) ListCards(_ context.Context, userID uint) ([]model.CreditCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cards []model.CreditCard
	for id := uint(1); id <= r.nextCard; id++ {
		if c, ok := r.cards[id]; ok && c.UserID == userID {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// CreateCard persists a tokenized card.
func (r *MemoryRepo) CreateCard(_ context.Context, card *model.CreditCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextCard++
	card.ID = r.nextCard
	r.cards[card.ID] = *card
	return nil
}

// UpdateCard replaces a card owned by the same user.
func (r *MemoryRepo) UpdateCard(_ context.Context, card model.CreditCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.cards[card.ID]
	if !ok || existing.UserID != card.UserID {
		return fmt.Errorf("update card %d: %w", card.ID, farmerrors.ErrCardNotFound)
	}
	existing.ExpiryMonth = card.ExpiryMonth
	existing.ExpiryYear = card.ExpiryYear
	r.cards[card.ID] = existing
	return nil
}

// DeleteCard removes a card owned by the given user.
func (r *MemoryRepo) DeleteCard(_ context.Context, userID, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.cards[id]
	if !ok || existing.UserID != userID {
		return fmt.Errorf("delete card %d: %w", id, farmerrors.ErrCardNotFound)
	}
	delete(r.cards, id)
	return nil
}

// CreateOrder persists a checkout order.
func (r *MemoryRepo) CreateOrder(_ context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	r.orderKey[order.IdempotencyKey] = order.ID
	return nil
}

// GetOrder returns an order by id.
func (r *MemoryRepo) GetOrder(_ context.Context, id string) (model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return model.Order{}, fmt.Errorf("get order %s: %w", id, farmerrors.ErrOrderNotFound)
	}
	return order, nil
}

// GetOrderByIdempotencyKey returns the order previously created under key.
func (r *MemoryRepo) GetOrderByIdempotencyKey(_ context.Context, key string) (model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.orderKey[key]
	if !ok {
		return model.Order{}, fmt.Errorf("get order by key %s: %w", key, farmerrors.ErrOrderNotFound)
	}
	return r.orders[id], nil
}

// UpdateOrder replaces an existing order.
func (r *MemoryRepo) UpdateOrder(_ context.Context, order model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("update order %s: %w", order.ID, farmerrors.ErrOrderNotFound)
	}
	order.UpdatedAt = time.Now().UTC()
	r.orders[order.ID] = order
	return nil
}

// AddSeller seeds a seller profile directly. Intended for tests.
func (r *MemoryRepo) AddSeller(seller model.Seller) uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seller.ID == 0 {
		r.nextSeller++
		seller.ID = r.nextSeller
	} else if seller.ID > r.nextSeller {
		r.nextSeller = seller.ID
	}
	r.sellers[seller.ID] = seller
	return seller.ID
}

// AddBuyer seeds a buyer profile directly. Intended for tests.
func (r *MemoryRepo) AddBuyer(buyer model.Buyer) uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	if buyer.ID == 0 {
		r.nextBuyer++
		buyer.ID = r.nextBuyer
	} else if buyer.ID > r.nextBuyer {
		r.nextBuyer = buyer.ID
	}
	r.buyers[buyer.ID] = buyer
	return buyer.ID
}

// AddListing seeds a listing directly. Intended for tests.
func (r *MemoryRepo) AddListing(listing model.Product) uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == 0 {
		r.nextListing++
		listing.ID = r.nextListing
	} else if listing.ID > r.nextListing {
		r.nextListing = listing.ID
	}
	r.listings[listing.ID] = listing
	return listing.ID
}
