package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmify/internal/farmerrors"
	"farmify/utils"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message.
// Internal failures stay generic in the response body.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, farmerrors.ErrListingNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, farmerrors.ErrBidNotFound):
		return http.StatusNotFound, "bid not found"
	case errors.Is(err, farmerrors.ErrUserNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, farmerrors.ErrCardNotFound):
		return http.StatusNotFound, "payment card not found"
	case errors.Is(err, farmerrors.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, farmerrors.ErrInvalidListing):
		return http.StatusBadRequest, "invalid listing details"
	case errors.Is(err, farmerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, farmerrors.ErrInvalidRating):
		return http.StatusBadRequest, "rating must be between 1 and 5"
	case errors.Is(err, farmerrors.ErrInvalidAccount):
		return http.StatusBadRequest, "invalid account details"
	case errors.Is(err, farmerrors.ErrInvalidCard):
		return http.StatusBadRequest, "invalid payment card details"
	case errors.Is(err, farmerrors.ErrBadCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, farmerrors.ErrDuplicateEmail):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, farmerrors.ErrAuctionNotActive):
		return http.StatusConflict, "auction is not active"
	case errors.Is(err, farmerrors.ErrOrderState):
		return http.StatusConflict, "order state does not allow this operation"
	case errors.Is(err, farmerrors.ErrProvider):
		return http.StatusBadGateway, "upstream provider error"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError maps err, sends the error response, and logs it.
func RespondError(c *gin.Context, handlerName string, err error) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, errors.New(message), message)
	utils.Warn(handlerName+": request failed", map[string]any{
		"status": status,
		"error":  err.Error(),
	})
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
