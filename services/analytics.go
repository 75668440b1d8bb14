package services

import (
	"sort"
	"strings"

	"invoice-insights-backend/models"
	"invoice-insights-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	UnknownVendorName = "Unknown Vendor"
	Uncategorized     = "Uncategorized"
)

type OverviewStats struct {
	TotalSpend        float64 `json:"totalSpend"`
	TotalInvoices     int     `json:"totalInvoices"`
	DocumentsUploaded int     `json:"documentsUploaded"`
	AvgInvoiceValue   float64 `json:"avgInvoiceValue"`
}

type TrendPoint struct {
	Month string  `json:"month"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type VendorSpend struct {
	VendorID string  `json:"vendorId"`
	Name     string  `json:"name"`
	Spend    float64 `json:"spend"`
}

type CategorySpend struct {
	Category string  `json:"category"`
	Spend    float64 `json:"spend"`
}

type OutflowPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// InvoiceListItem is an invoice joined with its vendor's display name.
type InvoiceListItem struct {
	models.Invoice
	VendorName string `json:"vendorName"`
}

// ComputeOverview sums invoice totals. DocumentsUploaded mirrors the invoice
// count until document uploads exist.
func ComputeOverview(invoices []models.Invoice) OverviewStats {
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(decimal.NewFromFloat(inv.TotalAmount))
	}

	stats := OverviewStats{
		TotalSpend:        total.InexactFloat64(),
		TotalInvoices:     len(invoices),
		DocumentsUploaded: len(invoices),
	}
	if len(invoices) > 0 {
		stats.AvgInvoiceValue = total.Div(decimal.NewFromInt(int64(len(invoices)))).InexactFloat64()
	}
	return stats
}

// ComputeMonthlyTrends buckets invoices by the UTC year-month of their issue
// date, ordered by month key.
func ComputeMonthlyTrends(invoices []models.Invoice) []TrendPoint {
	type bucket struct {
		count int
		value decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	for _, inv := range invoices {
		key := utils.MonthKey(inv.IssueDate)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{value: decimal.Zero}
			buckets[key] = b
		}
		b.count++
		b.value = b.value.Add(decimal.NewFromFloat(inv.TotalAmount))
	}

	out := make([]TrendPoint, 0, len(buckets))
	for month, b := range buckets {
		out = append(out, TrendPoint{Month: month, Count: b.count, Value: b.value.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// RankVendors totals spend per vendor and returns the top limit entries,
// highest spend first. Vendors missing from the lookup are reported as
// UnknownVendorName.
func RankVendors(invoices []models.Invoice, vendors map[uuid.UUID]models.Vendor, limit int) []VendorSpend {
	spend := make(map[uuid.UUID]decimal.Decimal)
	for _, inv := range invoices {
		spend[inv.VendorID] = spend[inv.VendorID].Add(decimal.NewFromFloat(inv.TotalAmount))
	}

	out := make([]VendorSpend, 0, len(spend))
	for id, total := range spend {
		name := UnknownVendorName
		if v, ok := vendors[id]; ok && v.Name != "" {
			name = v.Name
		}
		out = append(out, VendorSpend{VendorID: id.String(), Name: name, Spend: total.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].VendorID < out[j].VendorID
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ComputeCategorySpend totals spend by vendor category, largest first.
func ComputeCategorySpend(invoices []models.Invoice, vendors map[uuid.UUID]models.Vendor) []CategorySpend {
	spend := make(map[string]decimal.Decimal)
	for _, inv := range invoices {
		category := Uncategorized
		if v, ok := vendors[inv.VendorID]; ok && v.Category != "" {
			category = v.Category
		}
		spend[category] = spend[category].Add(decimal.NewFromFloat(inv.TotalAmount))
	}

	out := make([]CategorySpend, 0, len(spend))
	for category, total := range spend {
		out = append(out, CategorySpend{Category: category, Spend: total.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ComputeCashOutflow groups pending invoices by UTC due day, earliest first.
// Invoices in any other status are ignored.
func ComputeCashOutflow(invoices []models.Invoice) []OutflowPoint {
	byDay := make(map[string]decimal.Decimal)
	for _, inv := range invoices {
		if inv.Status != models.InvoiceStatusPending {
			continue
		}
		key := utils.DayKey(inv.DueDate)
		byDay[key] = byDay[key].Add(decimal.NewFromFloat(inv.TotalAmount))
	}

	out := make([]OutflowPoint, 0, len(byDay))
	for day, total := range byDay {
		out = append(out, OutflowPoint{Date: day, Amount: total.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// AttachVendorNames pairs each invoice with its vendor name, keeping order.
func AttachVendorNames(invoices []models.Invoice, vendors map[uuid.UUID]models.Vendor) []InvoiceListItem {
	out := make([]InvoiceListItem, 0, len(invoices))
	for _, inv := range invoices {
		name := UnknownVendorName
		if v, ok := vendors[inv.VendorID]; ok && v.Name != "" {
			name = v.Name
		}
		out = append(out, InvoiceListItem{Invoice: inv, VendorName: name})
	}
	return out
}

// FilterInvoiceList keeps items whose invoice number or vendor name contains
// search, ignoring case. A blank search returns items unchanged.
func FilterInvoiceList(items []InvoiceListItem, search string) []InvoiceListItem {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return items
	}
	out := make([]InvoiceListItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.InvoiceNumber), term) ||
			strings.Contains(strings.ToLower(it.VendorName), term) {
			out = append(out, it)
		}
	}
	return out
}
