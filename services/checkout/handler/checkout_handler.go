package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmify/internal/auth"
	checkout "farmify/internal/checkoutService"
	"farmify/internal/doordash"
	model "farmify/internal/models"
	"farmify/services/helpers"
	"farmify/utils"
)

// CreateOrderRequest is the POST /api/checkout/orders payload. The buyer
// is taken from the session token, never from the body; the idempotency
// key lets the client retry the call safely.
type CreateOrderRequest struct {
	AuctionID      uint   `json:"auction_id" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required,gt=0"`
	DropoffAddress string `json:"dropoff_address" binding:"required"`
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
}

type CheckoutServiceInterface interface {
	CreateOrder(ctx context.Context, userID uint, in checkout.CreateOrderInput) (model.Order, error)
	CompleteOrder(ctx context.Context, userID uint, orderID string) (model.Order, error)
	GetOrder(ctx context.Context, userID uint, orderID string) (model.Order, error)
	DeliveryStatus(ctx context.Context, deliveryID string) (doordash.Delivery, error)
}

type CheckoutHandler struct {
	service CheckoutServiceInterface
}

func NewCheckoutHandler(service CheckoutServiceInterface) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// CreateOrderHandler handles POST /api/checkout/orders
func (h *CheckoutHandler) CreateOrderHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateOrderHandler", err)
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), userID, checkout.CreateOrderInput{
		AuctionID:      req.AuctionID,
		Quantity:       req.Quantity,
		DropoffAddress: req.DropoffAddress,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		helpers.RespondError(c, "CreateOrderHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, order, "order created successfully")
	helpers.LogSuccess("CreateOrderHandler", "order created successfully", map[string]any{
		"order_id":   order.ID,
		"auction_id": order.AuctionID,
		"status":     order.Status,
	})
}

// CompleteOrderHandler handles POST /api/checkout/orders/:id/complete
func (h *CheckoutHandler) CompleteOrderHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	id := c.Param("id")
	order, err := h.service.CompleteOrder(c.Request.Context(), userID, id)
	if err != nil {
		// A compensated order is reported with its final state alongside
		// the provider failure.
		if order.ID != "" {
			status, message := helpers.MapErrorToHTTP(err)
			c.JSON(status, gin.H{
				"status":  status,
				"message": message,
				"data":    order,
			})
			utils.Warn("CompleteOrderHandler: order did not confirm", map[string]any{
				"order_id": id, "state": order.Status, "error": err.Error(),
			})
			return
		}
		helpers.RespondError(c, "CompleteOrderHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, order, "order completed")
	helpers.LogSuccess("CompleteOrderHandler", "order completed", map[string]any{
		"order_id": order.ID,
		"status":   order.Status,
	})
}

// GetOrderHandler handles GET /api/checkout/orders/:id
func (h *CheckoutHandler) GetOrderHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		helpers.RespondError(c, "GetOrderHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, order, "order retrieved successfully")
}

// DeliveryStatusHandler handles GET /api/delivery/status/:id
func (h *CheckoutHandler) DeliveryStatusHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		utils.JSONError(c, http.StatusBadRequest, errors.New("missing delivery id"), "missing delivery id")
		return
	}

	delivery, err := h.service.DeliveryStatus(c.Request.Context(), id)
	if err != nil {
		helpers.RespondError(c, "DeliveryStatusHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, delivery, "delivery status retrieved")
}
