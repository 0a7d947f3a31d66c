package models

import "time"

// Account types for User.AccountType
const (
	AccountTypeBuyer  = "buyer"
	AccountTypeSeller = "seller"
)

// User is a registered account. A user owns at most one Buyer and one
// Seller profile depending on its account type.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:100;uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"size:50;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Credits      float64   `json:"credits" gorm:"default:0"`
	AccountType  string    `json:"account_type" gorm:"size:10;not null"`
	CreatedAt    time.Time `json:"created_at"`

	Buyer  *Buyer  `json:"buyer,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Seller *Seller `json:"seller,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Buyer is the buyer-side profile attached 1:1 to a User.
type Buyer struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Address string `json:"address"`
	Status  string `json:"status" gorm:"size:20;default:active"`
}

// Seller is the seller-side profile attached 1:1 to a User.
// PayPalAccount is the payment-routing identifier shown on listings.
type Seller struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	UserID        uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	SellerName    string  `json:"seller_name" gorm:"size:100"`
	Address       string  `json:"address"`
	Description   string  `json:"description"`
	Status        string  `json:"status" gorm:"size:20;default:active"`
	SellerRating  float64 `json:"seller_rating" gorm:"default:0"`
	PayPalAccount string  `json:"paypal_account" gorm:"size:100"`
}

// Product is an auction listing: a time-bounded offering whose unit price
// moves linearly from StartPrice to EndPrice between StartTime and EndTime.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"size:50"`
	SellerID    uint      `json:"seller_id" gorm:"index;not null"`
	Quantity    int       `json:"quantity"`
	StartPrice  float64   `json:"start_price" gorm:"not null"`
	EndPrice    float64   `json:"end_price" gorm:"not null"`
	StartTime   time.Time `json:"start_time" gorm:"not null"`
	EndTime     time.Time `json:"end_time" gorm:"not null"`
	ImgURL      string    `json:"img_url"`
}

// Bid is a buyer's purchase action against a listing: Amount units at
// unit price Price. CreatedAt is always set server-side.
type Bid struct {
	ID             string    `json:"bid_id" gorm:"type:uuid;primaryKey"`
	BuyerID        uint      `json:"buyer_id" gorm:"index;not null"`
	AuctionID      uint      `json:"auction_id" gorm:"index;not null"`
	Amount         int       `json:"amount" gorm:"not null"`
	Price          float64   `json:"price" gorm:"not null"`
	DeliveryStatus string    `json:"delivery_status" gorm:"size:30"`
	Rating         *int      `json:"rating,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreditCard stores a tokenized payment method. The PAN is reduced to
// Token+Last4 before it ever reaches the store; the CVV is never persisted.
type CreditCard struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	Token       string `json:"token" gorm:"type:uuid;uniqueIndex;not null"`
	Last4       string `json:"last4" gorm:"size:4;not null"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
}

// Order states for the checkout workflow.
const (
	OrderPending           = "pending"
	OrderPaid              = "paid"
	OrderDeliveryRequested = "delivery_requested"
	OrderConfirmed         = "confirmed"
	OrderRefunded          = "refunded"
	OrderFailed            = "failed"
)

// Order is the persisted checkout workflow state. It moves
// pending -> paid -> delivery_requested -> confirmed, with refunded and
// failed as terminal failure states.
type Order struct {
	ID             string    `json:"order_id" gorm:"type:uuid;primaryKey"`
	BuyerID        uint      `json:"buyer_id" gorm:"index;not null"`
	AuctionID      uint      `json:"auction_id" gorm:"index;not null"`
	Quantity       int       `json:"quantity" gorm:"not null"`
	UnitPrice      float64   `json:"unit_price" gorm:"not null"`
	Total          float64   `json:"total" gorm:"not null"`
	Status         string    `json:"status" gorm:"size:30;not null"`
	PayPalOrderID  string    `json:"paypal_order_id" gorm:"size:64"`
	CaptureID      string    `json:"capture_id" gorm:"size:64"`
	DeliveryID     string    `json:"delivery_id" gorm:"size:64"`
	DropoffAddress string    `json:"dropoff_address"`
	IdempotencyKey string    `json:"idempotency_key" gorm:"size:64;uniqueIndex;not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Terminal reports whether the order is in a state the workflow will not
// move out of.
func (o Order) Terminal() bool {
	return o.Status == OrderConfirmed || o.Status == OrderRefunded || o.Status == OrderFailed
}
