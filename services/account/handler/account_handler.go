package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	account "farmify/internal/accountService"
	"farmify/internal/auth"
	model "farmify/internal/models"
	"farmify/services/helpers"
	"farmify/utils"
)

// RegisterRequest is the POST /api/users/register payload.
type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required,min=8"`
	AccountType   string `json:"account_type" binding:"required,oneof=buyer seller"`
	Address       string `json:"address"`
	SellerName    string `json:"seller_name"`
	Description   string `json:"description"`
	PayPalAccount string `json:"paypal_account"`
}

// LoginRequest is the POST /api/users/login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// BuyerUpdateRequest is the PUT /api/buyer/account payload.
type BuyerUpdateRequest struct {
	Address *string `json:"address"`
	Status  *string `json:"status"`
}

// SellerContactRequest is the PUT /api/seller/account payload.
type SellerContactRequest struct {
	SellerName *string `json:"seller_name"`
	Address    *string `json:"address"`
}

// SellerBusinessRequest is the PUT /api/seller/business payload.
type SellerBusinessRequest struct {
	Description   *string `json:"description"`
	PayPalAccount *string `json:"paypal_account"`
	Status        *string `json:"status"`
}

// CardRequest is the POST /api/payment/cards payload. The number and CVV
// never leave the account service untokenized.
type CardRequest struct {
	CardNumber  string `json:"card_number" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
	ExpiryMonth int    `json:"expiry_month" binding:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year" binding:"required"`
}

// CardUpdateRequest is the PUT /api/payment/cards/:id payload.
type CardUpdateRequest struct {
	ExpiryMonth int `json:"expiry_month" binding:"required,min=1,max=12"`
	ExpiryYear  int `json:"expiry_year" binding:"required"`
}

type AccountServiceInterface interface {
	Register(ctx context.Context, in account.RegisterInput) (model.User, error)
	Login(ctx context.Context, email, password string) (string, model.User, error)
	GetBuyerProfile(ctx context.Context, userID uint) (model.User, error)
	UpdateBuyerProfile(ctx context.Context, userID uint, upd account.BuyerUpdate) (model.Buyer, error)
	GetSellerProfile(ctx context.Context, userID uint) (model.User, error)
	UpdateSellerContact(ctx context.Context, userID uint, upd account.SellerContactUpdate) (model.Seller, error)
	UpdateSellerBusiness(ctx context.Context, userID uint, upd account.SellerBusinessUpdate) (model.Seller, error)
	ListCards(ctx context.Context, userID uint) ([]model.CreditCard, error)
	AddCard(ctx context.Context, userID uint, in account.CardInput) (model.CreditCard, error)
	UpdateCard(ctx context.Context, userID, cardID uint, expiryMonth, expiryYear int) error
	DeleteCard(ctx context.Context, userID, cardID uint) error
}

type AccountHandler struct {
	service AccountServiceInterface
}

func NewAccountHandler(service AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// RegisterHandler handles POST /api/users/register
func (h *AccountHandler) RegisterHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), account.RegisterInput{
		Email:         req.Email,
		Username:      req.Username,
		Password:      req.Password,
		AccountType:   req.AccountType,
		Address:       req.Address,
		SellerName:    req.SellerName,
		Description:   req.Description,
		PayPalAccount: req.PayPalAccount,
	})
	if err != nil {
		helpers.RespondError(c, "RegisterHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, user, "account created successfully")
	helpers.LogSuccess("RegisterHandler", "account created successfully", map[string]any{
		"user_id":      user.ID,
		"account_type": user.AccountType,
	})
}

// LoginHandler handles POST /api/users/login
func (h *AccountHandler) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		helpers.RespondError(c, "LoginHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"token": token, "user": user}, "login successful")
	helpers.LogSuccess("LoginHandler", "login successful", map[string]any{"user_id": user.ID})
}

// GetBuyerAccountHandler handles GET /api/buyer/account
func (h *AccountHandler) GetBuyerAccountHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	user, err := h.service.GetBuyerProfile(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "GetBuyerAccountHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, user, "buyer account retrieved")
}

// UpdateBuyerAccountHandler handles PUT /api/buyer/account
func (h *AccountHandler) UpdateBuyerAccountHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	var req BuyerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateBuyerAccountHandler", err)
		return
	}

	buyer, err := h.service.UpdateBuyerProfile(c.Request.Context(), userID, account.BuyerUpdate{
		Address: req.Address,
		Status:  req.Status,
	})
	if err != nil {
		helpers.RespondError(c, "UpdateBuyerAccountHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, buyer, "buyer account updated")
}

// GetSellerAccountHandler handles GET /api/seller/account and
// GET /api/seller/business; both return the full seller profile.
func (h *AccountHandler) GetSellerAccountHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	user, err := h.service.GetSellerProfile(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "GetSellerAccountHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, user, "seller account retrieved")
}

// UpdateSellerAccountHandler handles PUT /api/seller/account
func (h *AccountHandler) UpdateSellerAccountHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	var req SellerContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateSellerAccountHandler", err)
		return
	}

	seller, err := h.service.UpdateSellerContact(c.Request.Context(), userID, account.SellerContactUpdate{
		SellerName: req.SellerName,
		Address:    req.Address,
	})
	if err != nil {
		helpers.RespondError(c, "UpdateSellerAccountHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, seller, "seller account updated")
}

// UpdateSellerBusinessHandler handles PUT /api/seller/business
func (h *AccountHandler) UpdateSellerBusinessHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	var req SellerBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateSellerBusinessHandler", err)
		return
	}

	seller, err := h.service.UpdateSellerBusiness(c.Request.Context(), userID, account.SellerBusinessUpdate{
		Description:   req.Description,
		PayPalAccount: req.PayPalAccount,
		Status:        req.Status,
	})
	if err != nil {
		helpers.RespondError(c, "UpdateSellerBusinessHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, seller, "seller business updated")
}

// ListCardsHandler handles GET /api/payment/cards
func (h *AccountHandler) ListCardsHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	cards, err := h.service.ListCards(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "ListCardsHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, cards, "cards retrieved successfully")
}

// AddCardHandler handles POST /api/payment/cards
func (h *AccountHandler) AddCardHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddCardHandler", err)
		return
	}

	card, err := h.service.AddCard(c.Request.Context(), userID, account.CardInput{
		CardNumber:  req.CardNumber,
		CVV:         req.CVV,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
	})
	if err != nil {
		helpers.RespondError(c, "AddCardHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, card, "card stored successfully")
	helpers.LogSuccess("AddCardHandler", "card stored successfully", map[string]any{
		"user_id": userID,
		"card_id": card.ID,
		"last4":   card.Last4,
	})
}

// UpdateCardHandler handles PUT /api/payment/cards/:id
func (h *AccountHandler) UpdateCardHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	cardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		helpers.HandleBindError(c, "UpdateCardHandler", err)
		return
	}

	var req CardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateCardHandler", err)
		return
	}

	if err := h.service.UpdateCard(c.Request.Context(), userID, uint(cardID), req.ExpiryMonth, req.ExpiryYear); err != nil {
		helpers.RespondError(c, "UpdateCardHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"card_id": cardID}, "card updated successfully")
}

// DeleteCardHandler handles DELETE /api/payment/cards/:id
func (h *AccountHandler) DeleteCardHandler(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("unauthenticated"), "authentication required")
		return
	}

	cardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		helpers.HandleBindError(c, "DeleteCardHandler", err)
		return
	}

	if err := h.service.DeleteCard(c.Request.Context(), userID, uint(cardID)); err != nil {
		helpers.RespondError(c, "DeleteCardHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"card_id": cardID}, "card deleted successfully")
}
