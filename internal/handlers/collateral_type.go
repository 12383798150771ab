// internal/handlers/collateral_type.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wekeza/sacco-backend/internal/services"
	"github.com/wekeza/sacco-backend/internal/utils"
)

type CollateralTypeHandler struct {
	typeService *services.CollateralTypeService
}

func NewCollateralTypeHandler(typeService *services.CollateralTypeService) *CollateralTypeHandler {
	return &CollateralTypeHandler{typeService: typeService}
}

// List handles GET /v1/collateral-types
func (h *CollateralTypeHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	types, err := h.typeService.ListTypes(includeInactive)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, types)
}

// Get handles GET /v1/collateral-types/:id
func (h *CollateralTypeHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ct, err := h.typeService.GetType(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, ct)
}

// Create handles POST /v1/collateral-types
func (h *CollateralTypeHandler) Create(c *gin.Context) {
	var req services.CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	ct, err := h.typeService.CreateType(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, ct)
}

// Update handles PUT /v1/collateral-types/:id
func (h *CollateralTypeHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	ct, err := h.typeService.UpdateType(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, ct)
}

// Deactivate handles POST /v1/collateral-types/:id/deactivate
func (h *CollateralTypeHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ct, err := h.typeService.DeactivateType(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, ct)
}

// Delete handles DELETE /v1/collateral-types/:id
func (h *CollateralTypeHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.typeService.DeleteType(id); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
