package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"farmify/internal/farmerrors"
	model "farmify/internal/models"
)

// GormRepo is the PostgreSQL-backed implementation of MarketDB.
type GormRepo struct {
	db *gorm.DB
}

// NewGormRepo creates a repository over an open gorm connection.
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) CreateListing(ctx context.Context, listing *model.Product) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

func (r *GormRepo) GetListing(ctx context.Context, id uint) (model.Product, error) {
	var listing model.Product
	err := r.db.WithContext(ctx).First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, fmt.Errorf("get listing %d: %w", id, farmerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("get listing %d: %w", id, err)
	}
	return listing, nil
}

func (r *GormRepo) ListListings(ctx context.Context) ([]model.Product, error) {
	var listings []model.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

func (r *GormRepo) RecordBid(ctx context.Context, bid model.Bid) error {
	if err := r.db.WithContext(ctx).Create(&bid).Error; err != nil {
		return fmt.Errorf("record bid %s: %w", bid.ID, err)
	}
	return nil
}

func (r *GormRepo) GetBid(ctx context.Context, id string) (model.Bid, error) {
	var bid model.Bid
	err := r.db.WithContext(ctx).First(&bid, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", id, farmerrors.ErrBidNotFound)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", id, err)
	}
	return bid, nil
}

func (r *GormRepo) ListBids(ctx context.Context) ([]model.Bid, error) {
	var bids []model.Bid
	if err := r.db.WithContext(ctx).Order("created_at").Find(&bids).Error; err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return bids, nil
}

func (r *GormRepo) UpdateBidRating(ctx context.Context, id string, rating int) error {
	res := r.db.WithContext(ctx).Model(&model.Bid{}).Where("id = ?", id).Update("rating", rating)
	if res.Error != nil {
		return fmt.Errorf("update rating for bid %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update rating for bid %s: %w", id, farmerrors.ErrBidNotFound)
	}
	return nil
}

func (r *GormRepo) CreateUser(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("create user %s: %w", user.Email, farmerrors.ErrDuplicateEmail)
	}
	if err != nil {
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Buyer").Preload("Seller").First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, fmt.Errorf("get user by email %s: %w", email, farmerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user by email %s: %w", email, err)
	}
	return user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Buyer").Preload("Seller").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, fmt.Errorf("get user %d: %w", id, farmerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

func (r *GormRepo) GetBuyer(ctx context.Context, buyerID uint) (model.Buyer, error) {
	var buyer model.Buyer
	err := r.db.WithContext(ctx).First(&buyer, buyerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Buyer{}, fmt.Errorf("get buyer %d: %w", buyerID, farmerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.Buyer{}, fmt.Errorf("get buyer %d: %w", buyerID, err)
	}
	return buyer, nil
}

func (r *GormRepo) UpdateBuyer(ctx context.Context, buyer model.Buyer) error {
	if err := r.db.WithContext(ctx).Save(&buyer).Error; err != nil {
		return fmt.Errorf("update buyer %d: %w", buyer.ID, err)
	}
	return nil
}

func (r *GormRepo) UpdateSeller(ctx context.Context, seller model.Seller) error {
	if err := r.db.WithContext(ctx).Save(&seller).Error; err != nil {
		return fmt.Errorf("update seller %d: %w", seller.ID, err)
	}
	return nil
}

func (r *GormRepo) GetSeller(ctx context.Context, sellerID uint) (model.Seller, error) {
	var seller model.Seller
	err := r.db.WithContext(ctx).First(&seller, sellerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Seller{}, fmt.Errorf("get seller %d: %w", sellerID, farmerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.Seller{}, fmt.Errorf("get seller %d: %w", sellerID, err)
	}
	return seller, nil
}

func (r *GormRepo) ListSellers(ctx context.Context) ([]model.Seller, error) {
	var sellers []model.Seller
	if err := r.db.WithContext(ctx).Order("id").Find(&sellers).Error; err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	return sellers, nil
}

func (r *GormRepo) ListCards(ctx context.Context, userID uint) ([]model.CreditCard, error) {
	var cards []model.CreditCard
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("list cards for user %d: %w", userID, err)
	}
	return cards, nil
}

func (r *GormRepo) CreateCard(ctx context.Context, card *model.CreditCard) error {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return fmt.Errorf("create card: %w", err)
	}
	return nil
}

func (r *GormRepo) UpdateCard(ctx context.Context, card model.CreditCard) error {
	res := r.db.WithContext(ctx).Model(&model.CreditCard{}).
		Where("id = ? AND user_id = ?", card.ID, card.UserID).
		Updates(map[string]any{"expiry_month": card.ExpiryMonth, "expiry_year": card.ExpiryYear})
	if res.Error != nil {
		return fmt.Errorf("update card %d: %w", card.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update card %d: %w", card.ID, farmerrors.ErrCardNotFound)
	}
	return nil
}

func (r *GormRepo) DeleteCard(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.CreditCard{})
	if res.Error != nil {
		return fmt.Errorf("delete card %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete card %d: %w", id, farmerrors.ErrCardNotFound)
	}
	return nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order %s: %w", order.ID, err)
	}
	return nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id string) (model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, fmt.Errorf("get order %s: %w", id, farmerrors.ErrOrderNotFound)
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	return order, nil
}

func (r *GormRepo) GetOrderByIdempotencyKey(ctx context.Context, key string) (model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).First(&order, "idempotency_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, fmt.Errorf("get order by key %s: %w", key, farmerrors.ErrOrderNotFound)
	}
	if err != nil {
		return model.Order{}, fmt.Errorf("get order by key %s: %w", key, err)
	}
	return order, nil
}

func (r *GormRepo) UpdateOrder(ctx context.Context, order model.Order) error {
	if err := r.db.WithContext(ctx).Save(&order).Error; err != nil {
		return fmt.Errorf("update order %s: %w", order.ID, err)
	}
	return nil
}
