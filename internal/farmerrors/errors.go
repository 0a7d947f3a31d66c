package farmerrors

import "errors"

// Repository-level errors
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrCardNotFound    = errors.New("payment card not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrDuplicateEmail  = errors.New("email already registered")
)

// business logic errors
var (
	ErrInvalidListing   = errors.New("invalid listing")
	ErrInvalidBid       = errors.New("invalid bid")
	ErrInvalidRating    = errors.New("rating out of range")
	ErrInvalidAccount   = errors.New("invalid account details")
	ErrInvalidCard      = errors.New("invalid payment card")
	ErrBadCredentials   = errors.New("invalid credentials")
	ErrAuctionNotActive = errors.New("auction is not active")
	ErrOrderState       = errors.New("order is not in a valid state for this operation")
)

// ErrProvider marks failures surfaced by an upstream payment or delivery
// provider; the wrapped message carries the provider status and body.
var ErrProvider = errors.New("upstream provider error")
