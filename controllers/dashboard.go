package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview returns every dashboard series in one response.
func (rc *ReportController) GetDashboardOverview(c *gin.Context) {
	dashboard, err := rc.Analytics.Dashboard(c.Request.Context())
	if err != nil {
		rc.fail(c, "Failed to build dashboard", err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
