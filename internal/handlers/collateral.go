// internal/handlers/collateral.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wekeza/sacco-backend/internal/models"
	"github.com/wekeza/sacco-backend/internal/services"
	"github.com/wekeza/sacco-backend/internal/utils"
)

type CollateralHandler struct {
	collateralService *services.CollateralService
}

func NewCollateralHandler(collateralService *services.CollateralService) *CollateralHandler {
	return &CollateralHandler{collateralService: collateralService}
}

// Register handles POST /v1/collateral
func (h *CollateralHandler) Register(c *gin.Context) {
	var req services.RegisterCollateralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	view, err := h.collateralService.Register(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, view)
}

// Get handles GET /v1/collateral/:id
func (h *CollateralHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.collateralService.GetItem(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// List handles GET /v1/collateral
func (h *CollateralHandler) List(c *gin.Context) {
	params := services.CollateralSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if v := c.Query("status"); v != "" {
		status := models.CollateralStatus(v)
		params.Status = &status
	}
	if v := c.Query("type_id"); v != "" {
		typeID, err := uuid.Parse(v)
		if err != nil {
			utils.BadRequestResponse(c, "invalid type_id parameter", nil)
			return
		}
		params.TypeID = &typeID
	}
	if v := c.Query("loan_id"); v != "" {
		loanID, err := uuid.Parse(v)
		if err != nil {
			utils.BadRequestResponse(c, "invalid loan_id parameter", nil)
			return
		}
		params.LoanID = &loanID
	}

	result, err := h.collateralService.Search(&params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// RecordValuation handles POST /v1/collateral/:id/valuations
func (h *CollateralHandler) RecordValuation(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.RecordValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	view, err := h.collateralService.RecordValuation(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// PlaceLien handles POST /v1/collateral/:id/lien
func (h *CollateralHandler) PlaceLien(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.collateralService.PlaceLien(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// Release handles POST /v1/collateral/:id/release
func (h *CollateralHandler) Release(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	// Body is optional; release notes only.
	var req services.ReleaseRequest
	_ = c.ShouldBindJSON(&req)

	view, err := h.collateralService.Release(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// Liquidate handles POST /v1/collateral/:id/liquidate
func (h *CollateralHandler) Liquidate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.LiquidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	view, err := h.collateralService.Liquidate(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// MarkDefaulted handles POST /v1/collateral/:id/default
func (h *CollateralHandler) MarkDefaulted(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.collateralService.ExternalDefault(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// Delete handles DELETE /v1/collateral/:id
func (h *CollateralHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.collateralService.Delete(id); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
