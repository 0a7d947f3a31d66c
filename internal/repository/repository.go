package repository

import (
	"context"

	model "farmify/internal/models"
)

//go:generate mockgen -destination=mocks.go -package=repository farmify/internal/repository ListingStore,BidStore

// ListingStore defines listing persistence for the marketplace.
type ListingStore interface {
	CreateListing(ctx context.Context, listing *model.Product) error
	GetListing(ctx context.Context, id uint) (model.Product, error)
	ListListings(ctx context.Context) ([]model.Product, error)
}

// BidStore defines bid persistence.
type BidStore interface {
	RecordBid(ctx context.Context, bid model.Bid) error
	GetBid(ctx context.Context, id string) (model.Bid, error)
	ListBids(ctx context.Context) ([]model.Bid, error)
	UpdateBidRating(ctx context.Context, id string, rating int) error
}

// UserStore defines user/profile persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id uint) (model.User, error)
	GetBuyer(ctx context.Context, buyerID uint) (model.Buyer, error)
	UpdateBuyer(ctx context.Context, buyer model.Buyer) error
	UpdateSeller(ctx context.Context, seller model.Seller) error
	GetSeller(ctx context.Context, sellerID uint) (model.Seller, error)
	ListSellers(ctx context.Context) ([]model.Seller, error)
}

// CardStore defines tokenized payment-card persistence, always scoped to
// the owning user.
type CardStore interface {
	ListCards(ctx context.Context, userID uint) ([]model.CreditCard, error)
	CreateCard(ctx context.Context, card *model.CreditCard) error
	UpdateCard(ctx context.Context, card model.CreditCard) error
	DeleteCard(ctx context.Context, userID, id uint) error
}

// OrderStore defines checkout-order persistence.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, id string) (model.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (model.Order, error)
	UpdateOrder(ctx context.Context, order model.Order) error
}

// MarketDB is the full storage surface of the marketplace.
type MarketDB interface {
	ListingStore
	BidStore
	UserStore
	CardStore
	OrderStore
}
