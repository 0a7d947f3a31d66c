package checkout

import (
	"context"
	"fmt"
	"math"
	"time"

	"farmify/internal/doordash"
	"farmify/internal/farmerrors"
	"farmify/internal/models"
	"farmify/internal/paypal"
	"farmify/internal/pricing"
	"farmify/internal/repository"
	"farmify/utils"
)

// PaymentClient is the slice of the PayPal client the workflow needs.
type PaymentClient interface {
	CreateOrder(ctx context.Context, amount float64, currency, description string) (paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (paypal.Capture, error)
	RefundCapture(ctx context.Context, captureID string) error
}

// DeliveryClient is the slice of the DoorDash client the workflow needs.
type DeliveryClient interface {
	CreateDelivery(ctx context.Context, dr doordash.DeliveryRequest) (doordash.Delivery, error)
	GetDelivery(ctx context.Context, externalDeliveryID string) (doordash.Delivery, error)
}

// CreateOrderInput starts a checkout.
type CreateOrderInput struct {
	AuctionID      uint
	Quantity       int
	DropoffAddress string
	IdempotencyKey string
}

// CheckoutService runs the payment/delivery/bid workflow as a persisted
// state machine: pending -> paid -> delivery_requested -> confirmed. A
// delivery failure after capture is compensated with a refund. All three
// steps happen server-side within one CompleteOrder call, so a client
// crash mid-flow leaves a resumable order instead of an inconsistent pair
// of provider-side and local records.
type CheckoutService struct {
	orders   repository.OrderStore
	listings repository.ListingStore
	users    repository.UserStore
	bids     repository.BidStore
	payments PaymentClient
	delivery DeliveryClient

	// Now supplies the clock for price quotes; tests override it.
	Now func() time.Time
}

// NewCheckoutService creates a new CheckoutService instance
func NewCheckoutService(repo repository.MarketDB, payments PaymentClient, delivery DeliveryClient) *CheckoutService {
	return &CheckoutService{
		orders:   repo,
		listings: repo,
		users:    repo,
		bids:     repo,
		payments: payments,
		delivery: delivery,
		Now:      time.Now,
	}
}

// CreateOrder quotes the listing at the current instant and opens a
// pending order plus its provider-side payment order for the session
// user's buyer profile. Replaying an idempotency key returns the order
// created first, unchanged; keys are scoped to their owner.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID uint, in CreateOrderInput) (models.Order, error) {
	if in.AuctionID == 0 || in.IdempotencyKey == "" {
		return models.Order{}, fmt.Errorf("service: %w - missing auction id or idempotency key", farmerrors.ErrInvalidBid)
	}
	if in.Quantity <= 0 {
		return models.Order{}, fmt.Errorf("service: %w - non-positive quantity", farmerrors.ErrInvalidBid)
	}

	buyer, err := s.buyerForUser(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}

	if existing, err := s.orders.GetOrderByIdempotencyKey(ctx, in.IdempotencyKey); err == nil {
		if existing.BuyerID != buyer.ID {
			return models.Order{}, fmt.Errorf("service: %w - idempotency key already in use", farmerrors.ErrInvalidBid)
		}
		return existing, nil
	}

	listing, err := s.listings.GetListing(ctx, in.AuctionID)
	if err != nil {
		return models.Order{}, fmt.Errorf("service: failed to load auction %d: %w", in.AuctionID, err)
	}

	quote, phase := pricing.Quote(listing.StartPrice, listing.EndPrice, listing.StartTime, listing.EndTime, s.Now())
	if phase != pricing.PhaseActive {
		return models.Order{}, fmt.Errorf("service: auction %d is %s: %w", in.AuctionID, phase, farmerrors.ErrAuctionNotActive)
	}

	unit := pricing.RoundCurrency(quote)
	total := pricing.RoundCurrency(unit * float64(in.Quantity))

	order := models.Order{
		ID:             utils.GenerateID(),
		BuyerID:        buyer.ID,
		AuctionID:      in.AuctionID,
		Quantity:       in.Quantity,
		UnitPrice:      unit,
		Total:          total,
		Status:         models.OrderPending,
		DropoffAddress: in.DropoffAddress,
		IdempotencyKey: in.IdempotencyKey,
	}

	ppOrder, err := s.payments.CreateOrder(ctx, total, "USD",
		fmt.Sprintf("Farmify order for %s x%d", listing.Name, in.Quantity))
	if err != nil {
		return models.Order{}, fmt.Errorf("service: failed to create payment order: %w", err)
	}
	order.PayPalOrderID = ppOrder.ID

	if err := s.orders.CreateOrder(ctx, &order); err != nil {
		return models.Order{}, fmt.Errorf("service: failed to persist order: %w", err)
	}

	utils.Info("checkout order opened", map[string]any{
		"order_id": order.ID, "auction_id": order.AuctionID, "total": order.Total,
	})
	return order, nil
}

// CompleteOrder drives an order from its current state to a terminal one:
// capture, then delivery, then the bid record. Calling it on a terminal
// order returns the order as stored, so retries are safe. Only the order's
// owner can complete it.
func (s *CheckoutService) CompleteOrder(ctx context.Context, userID uint, orderID string) (models.Order, error) {
	order, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.Terminal() {
		return order, nil
	}

	if order.Status == models.OrderPending {
		order, err = s.capture(ctx, order)
		if err != nil {
			return order, err
		}
	}

	if order.Status == models.OrderPaid {
		order, err = s.requestDelivery(ctx, order)
		if err != nil {
			return order, err
		}
	}

	if order.Status == models.OrderDeliveryRequested {
		order, err = s.recordBid(ctx, order)
		if err != nil {
			return order, err
		}
	}

	return order, nil
}

// GetOrder returns the order for state inspection. Orders belonging to a
// different buyer are reported as not found.
func (s *CheckoutService) GetOrder(ctx context.Context, userID uint, orderID string) (models.Order, error) {
	return s.ownedOrder(ctx, userID, orderID)
}

// buyerForUser resolves the session user's buyer profile.
func (s *CheckoutService) buyerForUser(ctx context.Context, userID uint) (models.Buyer, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return models.Buyer{}, fmt.Errorf("service: %w", err)
	}
	if user.Buyer == nil {
		return models.Buyer{}, fmt.Errorf("service: user %d has no buyer profile: %w", userID, farmerrors.ErrUserNotFound)
	}
	return *user.Buyer, nil
}

// ownedOrder loads an order and checks it belongs to the session user's
// buyer profile.
func (s *CheckoutService) ownedOrder(ctx context.Context, userID uint, orderID string) (models.Order, error) {
	buyer, err := s.buyerForUser(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, fmt.Errorf("service: %w", err)
	}
	if order.BuyerID != buyer.ID {
		return models.Order{}, fmt.Errorf("service: order %s is not owned by user %d: %w", orderID, userID, farmerrors.ErrOrderNotFound)
	}
	return order, nil
}

// DeliveryStatus passes a delivery lookup through to the provider.
func (s *CheckoutService) DeliveryStatus(ctx context.Context, deliveryID string) (doordash.Delivery, error) {
	d, err := s.delivery.GetDelivery(ctx, deliveryID)
	if err != nil {
		return doordash.Delivery{}, fmt.Errorf("service: failed to fetch delivery %s: %w", deliveryID, err)
	}
	return d, nil
}

func (s *CheckoutService) capture(ctx context.Context, order models.Order) (models.Order, error) {
	capture, err := s.payments.CaptureOrder(ctx, order.PayPalOrderID)
	if err != nil {
		order.Status = models.OrderFailed
		if perr := s.persist(ctx, order); perr != nil {
			utils.Error("checkout: failed to persist failed state", map[string]any{
				"order_id": order.ID, "error": perr.Error(),
			})
		}
		return order, fmt.Errorf("service: payment capture failed for order %s: %w", order.ID, err)
	}

	order.CaptureID = capture.ID
	order.Status = models.OrderPaid
	if err := s.persist(ctx, order); err != nil {
		return order, err
	}
	return order, nil
}

func (s *CheckoutService) requestDelivery(ctx context.Context, order models.Order) (models.Order, error) {
	pickup := ""
	if listing, err := s.listings.GetListing(ctx, order.AuctionID); err == nil {
		if seller, err := s.users.GetSeller(ctx, listing.SellerID); err == nil {
			pickup = seller.Address
		}
	}

	delivery, err := s.delivery.CreateDelivery(ctx, doordash.DeliveryRequest{
		ExternalDeliveryID: order.ID,
		PickupAddress:      pickup,
		DropoffAddress:     order.DropoffAddress,
		OrderValue:         int(math.Round(order.Total * 100)),
	})
	if err != nil {
		// Compensate the already captured payment before giving up.
		if refundErr := s.payments.RefundCapture(ctx, order.CaptureID); refundErr != nil {
			utils.Error("checkout: refund after delivery failure also failed", map[string]any{
				"order_id": order.ID, "capture_id": order.CaptureID, "error": refundErr.Error(),
			})
		}
		order.Status = models.OrderRefunded
		if perr := s.persist(ctx, order); perr != nil {
			utils.Error("checkout: failed to persist refunded state", map[string]any{
				"order_id": order.ID, "error": perr.Error(),
			})
		}
		return order, fmt.Errorf("service: delivery request failed for order %s, payment refunded: %w", order.ID, err)
	}

	order.DeliveryID = delivery.ExternalDeliveryID
	order.Status = models.OrderDeliveryRequested
	if err := s.persist(ctx, order); err != nil {
		return order, err
	}
	return order, nil
}

func (s *CheckoutService) recordBid(ctx context.Context, order models.Order) (models.Order, error) {
	bid := models.Bid{
		ID:             utils.GenerateID(),
		BuyerID:        order.BuyerID,
		AuctionID:      order.AuctionID,
		Amount:         order.Quantity,
		Price:          order.UnitPrice,
		DeliveryStatus: "requested",
		CreatedAt:      s.Now().UTC(),
	}
	if err := s.bids.RecordBid(ctx, bid); err != nil {
		return order, fmt.Errorf("service: failed to record bid for order %s: %w", order.ID, err)
	}

	order.Status = models.OrderConfirmed
	if err := s.persist(ctx, order); err != nil {
		return order, err
	}
	utils.Info("checkout order confirmed", map[string]any{"order_id": order.ID, "bid_id": bid.ID})
	return order, nil
}

func (s *CheckoutService) persist(ctx context.Context, order models.Order) error {
	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("service: failed to persist order %s state %s: %w", order.ID, order.Status, err)
	}
	return nil
}
