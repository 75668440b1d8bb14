package services

import (
	"context"
	"testing"
	"time"

	"invoice-insights-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsServiceOnSeededData(t *testing.T) {
	db := setupTestDB(t)
	seedTestDB(t, db)
	svc := NewAnalyticsService(db)
	ctx := context.Background()

	stats, err := svc.OverviewStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 49000.0, stats.TotalSpend)
	assert.Equal(t, 6, stats.TotalInvoices)
	assert.Equal(t, 6, stats.DocumentsUploaded)
	assert.InDelta(t, 8166.67, stats.AvgInvoiceValue, 0.01)

	trends, err := svc.InvoiceTrends(ctx)
	require.NoError(t, err)
	// fixedNow is 2024-03-01; issue dates span 30 days back into January/February.
	require.NotEmpty(t, trends)
	count := 0
	for i, p := range trends {
		count += p.Count
		if i > 0 {
			assert.Less(t, trends[i-1].Month, p.Month)
		}
	}
	assert.Equal(t, 6, count)

	top, err := svc.TopVendors(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "TechCorp Solutions", top[0].Name)
	assert.Equal(t, 15000.0, top[0].Spend)
	assert.Equal(t, "Legal Services LLC", top[1].Name)
	assert.Equal(t, "Marketing Agency Pro", top[2].Name)

	all, err := svc.TopVendors(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 6, "only vendors with invoices are ranked")

	categories, err := svc.CategorySpend(ctx)
	require.NoError(t, err)
	var catTotal float64
	for _, c := range categories {
		catTotal += c.Spend
	}
	assert.Equal(t, stats.TotalSpend, catTotal)
	assert.Equal(t, "Technology", categories[0].Category)
	assert.Equal(t, 18200.0, categories[0].Spend)

	outflow, err := svc.CashOutflow(ctx)
	require.NoError(t, err)
	assert.Equal(t, []OutflowPoint{
		{Date: "2024-03-11", Amount: 8500},
		{Date: "2024-03-16", Amount: 15000},
		{Date: "2024-03-21", Amount: 3200},
		{Date: "2024-03-26", Amount: 7800},
	}, outflow)
}

func TestInvoiceListOrderingLimitAndSearch(t *testing.T) {
	db := setupTestDB(t)
	seedTestDB(t, db)
	svc := NewAnalyticsService(db)
	ctx := context.Background()

	list, err := svc.InvoiceList(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, list, 6)
	assert.Equal(t, "INV-2024-006", list[0].InvoiceNumber)
	assert.Equal(t, "Consulting Group", list[0].VendorName)
	assert.Equal(t, "INV-2024-001", list[5].InvoiceNumber)

	limited, err := svc.InvoiceList(ctx, 2, "")
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	found, err := svc.InvoiceList(ctx, 50, "techcorp")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "INV-2024-001", found[0].InvoiceNumber)

	// search only looks inside the limited page
	none, err := svc.InvoiceList(ctx, 2, "techcorp")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInvoiceListOrdersAcrossZones(t *testing.T) {
	db := setupTestDB(t)
	vendor := models.Vendor{Name: "Zoned"}
	require.NoError(t, db.Create(&vendor).Error)

	pacific := time.FixedZone("PST", -8*3600)
	early := models.Invoice{
		InvoiceNumber: "EARLY", VendorID: vendor.ID, Status: models.InvoiceStatusPending, Currency: "USD",
		IssueDate: time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC),
	}
	// 13:00Z, later than EARLY even though its local wall clock reads earlier
	late := models.Invoice{
		InvoiceNumber: "LATE", VendorID: vendor.ID, Status: models.InvoiceStatusPending, Currency: "USD",
		IssueDate: time.Date(2024, time.March, 1, 5, 0, 0, 0, pacific),
		DueDate:   time.Date(2024, time.March, 10, 5, 0, 0, 0, pacific),
	}
	require.NoError(t, db.Create(&late).Error)
	require.NoError(t, db.Create(&early).Error)

	list, err := NewAnalyticsService(db).InvoiceList(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "LATE", list[0].InvoiceNumber)
	assert.Equal(t, "EARLY", list[1].InvoiceNumber)
	assert.Equal(t, time.UTC, late.IssueDate.Location())
}

func TestAnalyticsUnknownVendorFallback(t *testing.T) {
	db := setupTestDB(t)
	inv := models.Invoice{
		InvoiceNumber: "ORPHAN-1", VendorID: uuid.New(), IssueDate: fixedNow, DueDate: fixedNow,
		TotalAmount: 10, Status: models.InvoiceStatusPending, Currency: "USD",
	}
	require.NoError(t, db.Create(&inv).Error)
	svc := NewAnalyticsService(db)
	ctx := context.Background()

	top, err := svc.TopVendors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, UnknownVendorName, top[0].Name)

	cats, err := svc.CategorySpend(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CategorySpend{{Category: Uncategorized, Spend: 10}}, cats)

	list, err := svc.InvoiceList(ctx, 10, "unknown")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAnalyticsEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnalyticsService(db)
	ctx := context.Background()

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, OverviewStats{}, d.Stats)
	assert.Empty(t, d.Trends)
	assert.Empty(t, d.TopVendors)
	assert.Empty(t, d.CategorySpend)
	assert.Empty(t, d.CashOutflow)

	n, err := svc.InvoiceCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDashboardBundle(t *testing.T) {
	db := setupTestDB(t)
	seedTestDB(t, db)
	svc := NewAnalyticsService(db)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 49000.0, d.Stats.TotalSpend)
	assert.Len(t, d.TopVendors, 6)
	assert.Len(t, d.CashOutflow, 4)
	assert.NotEmpty(t, d.Trends)
	assert.NotEmpty(t, d.CategorySpend)
}
