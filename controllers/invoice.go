package controllers

import (
	"net/http"

	"invoice-insights-backend/services"

	"github.com/gin-gonic/gin"
)

// GetInvoices lists the most recent invoices with their vendor names,
// optionally filtered by ?search= on invoice number or vendor name.
func (rc *ReportController) GetInvoices(c *gin.Context) {
	limit, ok := queryLimit(c, services.DefaultInvoiceListLimit)
	if !ok {
		return
	}
	invoices, err := rc.Analytics.InvoiceList(c.Request.Context(), limit, c.Query("search"))
	if err != nil {
		rc.fail(c, "Failed to get invoices", err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}
