package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opptima/propel-backend/internal/service"
)

// DashboardHandler отдаёт сводку главного экрана.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler создаёт хэндлер.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Get обрабатывает GET /api/dashboard.
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.dashboard.Summary(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": summary})
}
