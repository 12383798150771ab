// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wekeza/sacco-backend/internal/services"
	"github.com/wekeza/sacco-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, resp)
}

// GetProfile handles GET /v1/auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	staffIDStr, ok := utils.GetStaffIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	staffID, err := uuid.Parse(staffIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	staff, err := h.authService.GetProfile(staffID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, staff)
}
