// internal/handlers/alerts.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wekeza/sacco-backend/internal/services"
	"github.com/wekeza/sacco-backend/internal/utils"
)

type AlertHandler struct {
	alertService *services.AlertService
}

func NewAlertHandler(alertService *services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// asOf reads the optional as_of query parameter (RFC 3339 date or
// timestamp), defaulting to now. It lets reviewers preview the alert state
// at a future date.
func asOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Now(), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	utils.BadRequestResponse(c, "invalid as_of parameter", nil)
	return time.Time{}, false
}

// Summary handles GET /v1/alerts/summary
func (h *AlertHandler) Summary(c *gin.Context) {
	at, ok := asOf(c)
	if !ok {
		return
	}

	summary, err := h.alertService.Summary(at)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// OverdueRevaluations handles GET /v1/alerts/revaluations/overdue
func (h *AlertHandler) OverdueRevaluations(c *gin.Context) {
	at, ok := asOf(c)
	if !ok {
		return
	}

	alerts, err := h.alertService.OverdueRevaluations(at)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, alerts)
}

// DueSoonRevaluations handles GET /v1/alerts/revaluations/due-soon
func (h *AlertHandler) DueSoonRevaluations(c *gin.Context) {
	at, ok := asOf(c)
	if !ok {
		return
	}

	alerts, err := h.alertService.DueSoonRevaluations(at)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, alerts)
}

// ExpiredInsurance handles GET /v1/alerts/insurance/expired
func (h *AlertHandler) ExpiredInsurance(c *gin.Context) {
	at, ok := asOf(c)
	if !ok {
		return
	}

	alerts, err := h.alertService.ExpiredInsurance(at)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, alerts)
}

// ExpiringInsurance handles GET /v1/alerts/insurance/expiring
func (h *AlertHandler) ExpiringInsurance(c *gin.Context) {
	at, ok := asOf(c)
	if !ok {
		return
	}

	alerts, err := h.alertService.ExpiringInsurance(at)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, alerts)
}
