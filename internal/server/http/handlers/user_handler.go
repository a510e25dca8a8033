package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/febryan/qrispay/internal/domain/errors"
	"github.com/febryan/qrispay/internal/server/http/dto"
)

// UserHandler manages customer endpoints.
type UserHandler struct {
	facade UserFacade
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(facade UserFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// Register handles POST /api/users. Registration is idempotent by email: the
// existing customer is returned with 200, a fresh one with 201.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	user, err := h.facade.RegisterUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidName):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Name is required"})
		case errors.Is(err, domainErrors.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Valid email is required"})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
