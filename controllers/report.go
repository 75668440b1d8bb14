// controllers/report.go
package controllers

import (
	"net/http"
	"strconv"

	"invoice-insights-backend/logger"
	"invoice-insights-backend/services"
	"invoice-insights-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController serves the dashboard analytics series.
type ReportController struct {
	Analytics *services.AnalyticsService
	Log       *logger.Logger
}

func NewReportController(analytics *services.AnalyticsService, log *logger.Logger) *ReportController {
	return &ReportController{Analytics: analytics, Log: log.WithComponent(logger.ComponentAnalytics)}
}

// GetOverview returns the headline stats.
func (rc *ReportController) GetOverview(c *gin.Context) {
	stats, err := rc.Analytics.OverviewStats(c.Request.Context())
	if err != nil {
		rc.fail(c, "Failed to get overview stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (rc *ReportController) GetTrends(c *gin.Context) {
	trends, err := rc.Analytics.InvoiceTrends(c.Request.Context())
	if err != nil {
		rc.fail(c, "Failed to get invoice trends", err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

func (rc *ReportController) GetTopVendors(c *gin.Context) {
	limit, ok := queryLimit(c, services.DefaultTopVendorLimit)
	if !ok {
		return
	}
	vendors, err := rc.Analytics.TopVendors(c.Request.Context(), limit)
	if err != nil {
		rc.fail(c, "Failed to get top vendors", err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func (rc *ReportController) GetCategorySpend(c *gin.Context) {
	categories, err := rc.Analytics.CategorySpend(c.Request.Context())
	if err != nil {
		rc.fail(c, "Failed to get category spend", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (rc *ReportController) GetCashOutflow(c *gin.Context) {
	outflow, err := rc.Analytics.CashOutflow(c.Request.Context())
	if err != nil {
		rc.fail(c, "Failed to get cash outflow", err)
		return
	}
	c.JSON(http.StatusOK, outflow)
}

func (rc *ReportController) fail(c *gin.Context, msg string, err error) {
	rc.Log.Error(msg, logger.FieldPath, c.Request.URL.Path, logger.FieldError, err)
	utils.RespondWithError(c, http.StatusInternalServerError, msg)
}

// queryLimit reads the optional "limit" query parameter. It writes a 400 and
// returns false when the value is not an integer.
func queryLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid limit: must be an integer")
		return 0, false
	}
	if limit <= 0 {
		return def, true
	}
	return limit, true
}
