package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	bidding "farmify/internal/biddingService"
	model "farmify/internal/models"
	"farmify/services/helpers"
	"farmify/utils"
)

// PlaceBidRequest is the POST /api/bids payload.
type PlaceBidRequest struct {
	BuyerID        uint    `json:"buyer_id" binding:"required"`
	AuctionID      uint    `json:"auction_id" binding:"required"`
	Amount         int     `json:"amount" binding:"required,gt=0"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	DeliveryStatus string  `json:"delivery_status"`
}

// RateBidRequest is the PUT /api/bids/:id payload.
type RateBidRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

//go:generate mockgen -source=bidding_handler.go -destination=mocks.go -package=handler

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, buyerID, auctionID uint, amount int, price float64, deliveryStatus string) (model.Bid, error)
	GetBid(ctx context.Context, id string) (bidding.View, error)
	ListBids(ctx context.Context) ([]bidding.View, error)
	UpdateBidRating(ctx context.Context, id string, rating int) error
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// RecordBidHandler handles POST /api/bids
func (h *BiddingHandler) RecordBidHandler(c *gin.Context) {
	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), req.BuyerID, req.AuctionID, req.Amount, req.Price, req.DeliveryStatus)
	if err != nil {
		helpers.RespondError(c, "RecordBidHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, bid, "bid recorded successfully")
	helpers.LogSuccess("RecordBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.ID,
		"auction_id": bid.AuctionID,
		"buyer_id":   bid.BuyerID,
		"amount":     bid.Amount,
	})
}

// GetBidHandler handles GET /api/bids/:id
func (h *BiddingHandler) GetBidHandler(c *gin.Context) {
	view, err := h.service.GetBid(c.Request.Context(), c.Param("id"))
	if err != nil {
		helpers.RespondError(c, "GetBidHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, view, "bid retrieved successfully")
}

// ListBidsHandler handles GET /api/bids
func (h *BiddingHandler) ListBidsHandler(c *gin.Context) {
	views, err := h.service.ListBids(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListBidsHandler", err)
		return
	}
	if views == nil {
		views = []bidding.View{}
	}

	utils.JSONResponse(c, http.StatusOK, views, "bids retrieved successfully")
	helpers.LogSuccess("ListBidsHandler", "bids retrieved successfully", map[string]any{
		"count": len(views),
	})
}

// RateBidHandler handles PUT /api/bids/:id
func (h *BiddingHandler) RateBidHandler(c *gin.Context) {
	var req RateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RateBidHandler", err)
		return
	}

	id := c.Param("id")
	if err := h.service.UpdateBidRating(c.Request.Context(), id, req.Rating); err != nil {
		helpers.RespondError(c, "RateBidHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"bid_id": id, "rating": req.Rating}, "bid rating updated")
	helpers.LogSuccess("RateBidHandler", "bid rating updated", map[string]any{
		"bid_id": id,
		"rating": req.Rating,
	})
}
