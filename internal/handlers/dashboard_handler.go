package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clario/internal/services"
)

// DashboardHandler serves the front-page aggregates and the health score
type DashboardHandler struct {
	healthService services.HealthServicer
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(healthService services.HealthServicer) *DashboardHandler {
	return &DashboardHandler{healthService: healthService}
}

// GetSummary returns the dashboard aggregates
// @Summary     Get dashboard summary
// @Description Get balances, open card bills, portfolio value, net worth and current-month flows
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardSummary "Dashboard summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.healthService.GetDashboardSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetHealthScore returns the financial-health score
// @Summary     Get financial-health score
// @Description Get the 0 to 100 financial-health score with the inputs that produced it
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ScoreResult "Health score"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/health [get]
func (h *DashboardHandler) GetHealthScore(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	score, err := h.healthService.GetScore(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}
