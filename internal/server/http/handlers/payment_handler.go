package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/febryan/qrispay/internal/domain/errors"
	"github.com/febryan/qrispay/internal/domain/model"
	"github.com/febryan/qrispay/internal/server/http/dto"
)

// PaymentHandler manages the payment lifecycle endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Create handles POST /api/payment/create.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), req.UserID, model.ServiceType(req.ServiceType))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrOrderAlreadyPending):
			response := dto.ErrorResponse{
				Message: "You have a pending order. Please complete or cancel it first.",
			}
			if order != nil {
				pending := toOrderResponse(*order)
				response.PendingOrder = &pending
			}
			c.JSON(http.StatusConflict, response)
		case errors.Is(err, domainErrors.ErrUserNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "User not found"})
		case errors.Is(err, domainErrors.ErrInvalidServiceType):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid service type"})
		case errors.Is(err, domainErrors.ErrProviderRejected), errors.Is(err, domainErrors.ErrProviderUnavailable):
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Payment provider unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.CreateOrderResponse{
		Success:   true,
		Order:     toOrderResponse(*order),
		QRCodeURL: order.QRCodeURL,
	})
}

// Check handles POST /api/payment/check.
func (h *PaymentHandler) Check(c *gin.Context) {
	var req dto.CheckStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.OrderID) == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Order ID is required"})
		return
	}

	result, err := h.facade.CheckStatus(c.Request.Context(), req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
		}
		return
	}

	response := dto.CheckStatusResponse{
		Success: true,
		Status:  string(result.Order.Status),
		Order:   toOrderResponse(*result.Order),
	}
	if result.GatewayErr != nil {
		response.Error = "Status check against payment provider failed"
	}
	c.JSON(http.StatusOK, response)
}

// CheckPending handles POST /api/payment/check-pending.
func (h *PaymentHandler) CheckPending(c *gin.Context) {
	var req dto.CheckPendingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "User ID is required"})
		return
	}

	result, err := h.facade.CheckPending(c.Request.Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUserNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
		}
		return
	}

	if !result.HasPendingOrder {
		c.JSON(http.StatusOK, dto.CheckPendingResponse{HasPendingOrder: false})
		return
	}

	order := toOrderResponse(*result.Order)
	c.JSON(http.StatusOK, dto.CheckPendingResponse{
		HasPendingOrder: true,
		Order:           &order,
		QRCodeURL:       result.QRCodeURL,
		ExpiresIn:       int64(result.ExpiresIn.Seconds()),
	})
}

// Cancel handles POST /api/payment/cancel.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 || strings.TrimSpace(req.OrderID) == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "User ID and order ID are required"})
		return
	}

	if err := h.facade.CancelOrder(c.Request.Context(), req.UserID, req.OrderID); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUserNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "User not found"})
		case errors.Is(err, domainErrors.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Order not found"})
		case errors.Is(err, domainErrors.ErrOrderNotOwned):
			c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Order does not belong to user"})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.CancelOrderResponse{
		Success: true,
		Message: "Order cancelled successfully",
	})
}
