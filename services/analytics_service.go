package services

import (
	"context"
	"fmt"

	"invoice-insights-backend/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	DefaultTopVendorLimit   = 10
	DefaultInvoiceListLimit = 50
)

// AnalyticsService runs the read-only dashboard queries. Every query scans
// the relevant tables and reduces in memory.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Dashboard is every chart series the dashboard renders on load.
type Dashboard struct {
	Stats         OverviewStats   `json:"stats"`
	Trends        []TrendPoint    `json:"trends"`
	TopVendors    []VendorSpend   `json:"topVendors"`
	CategorySpend []CategorySpend `json:"categorySpend"`
	CashOutflow   []OutflowPoint  `json:"cashOutflow"`
}

func (s *AnalyticsService) OverviewStats(ctx context.Context) (OverviewStats, error) {
	invoices, err := s.allInvoices(ctx)
	if err != nil {
		return OverviewStats{}, err
	}
	return ComputeOverview(invoices), nil
}

func (s *AnalyticsService) InvoiceTrends(ctx context.Context) ([]TrendPoint, error) {
	invoices, err := s.allInvoices(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeMonthlyTrends(invoices), nil
}

// TopVendors ranks vendors by spend. A non-positive limit means
// DefaultTopVendorLimit.
func (s *AnalyticsService) TopVendors(ctx context.Context, limit int) ([]VendorSpend, error) {
	if limit <= 0 {
		limit = DefaultTopVendorLimit
	}
	invoices, err := s.allInvoices(ctx)
	if err != nil {
		return nil, err
	}
	vendors, err := s.vendorsFor(ctx, invoices)
	if err != nil {
		return nil, err
	}
	return RankVendors(invoices, vendors, limit), nil
}

func (s *AnalyticsService) CategorySpend(ctx context.Context) ([]CategorySpend, error) {
	invoices, err := s.allInvoices(ctx)
	if err != nil {
		return nil, err
	}
	vendors, err := s.vendorsFor(ctx, invoices)
	if err != nil {
		return nil, err
	}
	return ComputeCategorySpend(invoices, vendors), nil
}

func (s *AnalyticsService) CashOutflow(ctx context.Context) ([]OutflowPoint, error) {
	var invoices []models.Invoice
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.InvoiceStatusPending).
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("load pending invoices: %w", err)
	}
	return ComputeCashOutflow(invoices), nil
}

// InvoiceList returns the most recent invoices with vendor names. The search
// filter applies to the already limited page.
func (s *AnalyticsService) InvoiceList(ctx context.Context, limit int, search string) ([]InvoiceListItem, error) {
	if limit <= 0 {
		limit = DefaultInvoiceListLimit
	}

	var invoices []models.Invoice
	if err := s.db.WithContext(ctx).
		Order("issue_date DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}

	vendors, err := s.vendorsFor(ctx, invoices)
	if err != nil {
		return nil, err
	}
	return FilterInvoiceList(AttachVendorNames(invoices, vendors), search), nil
}

// Dashboard computes all chart series concurrently; the first failure
// cancels the rest.
func (s *AnalyticsService) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Stats, err = s.OverviewStats(gctx)
		return
	})
	g.Go(func() (err error) {
		d.Trends, err = s.InvoiceTrends(gctx)
		return
	})
	g.Go(func() (err error) {
		d.TopVendors, err = s.TopVendors(gctx, DefaultTopVendorLimit)
		return
	})
	g.Go(func() (err error) {
		d.CategorySpend, err = s.CategorySpend(gctx)
		return
	})
	g.Go(func() (err error) {
		d.CashOutflow, err = s.CashOutflow(gctx)
		return
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// InvoiceCount is used by the startup auto-seed check.
func (s *AnalyticsService) InvoiceCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Invoice{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

func (s *AnalyticsService) allInvoices(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := s.db.WithContext(ctx).Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	return invoices, nil
}

// vendorsFor loads the vendors referenced by invoices, keyed by ID.
func (s *AnalyticsService) vendorsFor(ctx context.Context, invoices []models.Invoice) (map[uuid.UUID]models.Vendor, error) {
	out := make(map[uuid.UUID]models.Vendor)
	if len(invoices) == 0 {
		return out, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(invoices))
	ids := make([]uuid.UUID, 0, len(invoices))
	for _, inv := range invoices {
		if _, ok := seen[inv.VendorID]; ok {
			continue
		}
		seen[inv.VendorID] = struct{}{}
		ids = append(ids, inv.VendorID)
	}

	var vendors []models.Vendor
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&vendors).Error; err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	for _, v := range vendors {
		out[v.ID] = v
	}
	return out, nil
}
