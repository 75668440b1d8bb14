// controllers/reminder.go
package controllers

import (
	"errors"
	"net/http"

	"invoice-insights-backend/logger"
	"invoice-insights-backend/services"
	"invoice-insights-backend/utils"

	"github.com/gin-gonic/gin"
)

// AlertController exposes the payment reminder log and a manual trigger.
type AlertController struct {
	Alerts *services.AlertService
	Log    *logger.Logger
}

func NewAlertController(alerts *services.AlertService, log *logger.Logger) *AlertController {
	return &AlertController{Alerts: alerts, Log: log.WithComponent(logger.ComponentAlerts)}
}

// GetAlerts lists recent alert attempts, newest first
func (ac *AlertController) GetAlerts(c *gin.Context) {
	limit, ok := queryLimit(c, services.DefaultAlertListLimit)
	if !ok {
		return
	}
	alerts, err := ac.Alerts.Recent(c.Request.Context(), limit)
	if err != nil {
		ac.Log.Error("failed to list alerts", logger.FieldError, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get payment alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// RunAlerts sends reminders for invoices coming due right now instead of
// waiting for the schedule.
func (ac *AlertController) RunAlerts(c *gin.Context) {
	res, err := ac.Alerts.Run(c.Request.Context())
	if errors.Is(err, services.ErrAlertsDisabled) {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Payment alerts are not configured")
		return
	}
	if err != nil {
		ac.Log.Error("manual alert run failed", logger.FieldError, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to run payment alerts")
		return
	}
	c.JSON(http.StatusOK, res)
}
