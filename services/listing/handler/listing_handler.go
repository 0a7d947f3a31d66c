package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	listing "farmify/internal/listingService"
	model "farmify/internal/models"
	"farmify/services/helpers"
	"farmify/utils"
)

// CreateListingRequest is the POST /api/products payload.
type CreateListingRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	SellerID    uint      `json:"seller_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,gt=0"`
	StartPrice  float64   `json:"start_price" binding:"required,gt=0"`
	EndPrice    float64   `json:"end_price" binding:"required,gt=0"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	ImgURL      string    `json:"img_url"`
}

type ListingServiceInterface interface {
	CreateListing(ctx context.Context, listing model.Product) (model.Product, error)
	GetListing(ctx context.Context, id uint) (listing.View, error)
	ListListings(ctx context.Context) ([]listing.View, error)
}

type ListingHandler struct {
	service ListingServiceInterface
}

func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	return &ListingHandler{service: service}
}

// CreateListingHandler handles POST /api/products
func (h *ListingHandler) CreateListingHandler(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	created, err := h.service.CreateListing(c.Request.Context(), model.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		SellerID:    req.SellerID,
		Quantity:    req.Quantity,
		StartPrice:  req.StartPrice,
		EndPrice:    req.EndPrice,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ImgURL:      req.ImgURL,
	})
	if err != nil {
		helpers.RespondError(c, "CreateListingHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, created, "listing created successfully")
	helpers.LogSuccess("CreateListingHandler", "listing created successfully", map[string]any{
		"listing_id": created.ID,
		"seller_id":  created.SellerID,
	})
}

// GetListingHandler handles GET /api/products/:id
func (h *ListingHandler) GetListingHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		helpers.HandleBindError(c, "GetListingHandler", err)
		return
	}

	view, err := h.service.GetListing(c.Request.Context(), uint(id))
	if err != nil {
		helpers.RespondError(c, "GetListingHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, view, "listing retrieved successfully")
}

// ListListingsHandler handles GET /api/products
func (h *ListingHandler) ListListingsHandler(c *gin.Context) {
	views, err := h.service.ListListings(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListListingsHandler", err)
		return
	}
	if views == nil {
		views = []listing.View{}
	}

	utils.JSONResponse(c, http.StatusOK, views, "listings retrieved successfully")
	helpers.LogSuccess("ListListingsHandler", "listings retrieved successfully", map[string]any{
		"count": len(views),
	})
}
