// internal/handlers/insurance.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wekeza/sacco-backend/internal/models"
	"github.com/wekeza/sacco-backend/internal/services"
	"github.com/wekeza/sacco-backend/internal/utils"
)

type InsuranceHandler struct {
	insuranceService *services.InsuranceService
}

func NewInsuranceHandler(insuranceService *services.InsuranceService) *InsuranceHandler {
	return &InsuranceHandler{insuranceService: insuranceService}
}

// AddPolicy handles POST /v1/collateral/:id/insurance-policies
func (h *InsuranceHandler) AddPolicy(c *gin.Context) {
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AddPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	view, err := h.insuranceService.AddPolicy(itemID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, view)
}

// ListForItem handles GET /v1/collateral/:id/insurance-policies
func (h *InsuranceHandler) ListForItem(c *gin.Context) {
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	views, err := h.insuranceService.ListForItem(itemID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, views)
}

// List handles GET /v1/insurance-policies
func (h *InsuranceHandler) List(c *gin.Context) {
	params := services.PolicySearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		Insurer:          c.Query("insurer"),
	}
	if v := c.Query("status"); v != "" {
		status := models.PolicyStatus(v)
		params.Status = &status
	}

	result, err := h.insuranceService.Search(&params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// Get handles GET /v1/insurance-policies/:id
func (h *InsuranceHandler) Get(c *gin.Context) {
	policyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.insuranceService.GetPolicy(policyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// SetStatus handles PUT /v1/insurance-policies/:id/status
func (h *InsuranceHandler) SetStatus(c *gin.Context) {
	policyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SetPolicyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body", nil)
		return
	}

	view, err := h.insuranceService.SetPolicyStatus(policyID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// Delete handles DELETE /v1/insurance-policies/:id
func (h *InsuranceHandler) Delete(c *gin.Context) {
	policyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.insuranceService.DeletePolicy(policyID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
