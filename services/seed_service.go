package services

import (
	"context"
	"fmt"
	"time"

	"invoice-insights-backend/logger"
	"invoice-insights-backend/models"
	"invoice-insights-backend/utils"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type SeedResult struct {
	Message   string `json:"message"`
	Vendors   int    `json:"vendors"`
	Customers int    `json:"customers"`
	Invoices  int    `json:"invoices"`
	LineItems int    `json:"lineItems"`
	Payments  int    `json:"payments"`
}

// SeedService wipes and repopulates the demo dataset. Concurrent callers in
// the same process share one run.
type SeedService struct {
	db    *gorm.DB
	log   *logger.Logger
	now   func() time.Time
	group singleflight.Group
}

func NewSeedService(db *gorm.DB, log *logger.Logger) *SeedService {
	return &SeedService{db: db, log: log.WithComponent(logger.ComponentSeed), now: time.Now}
}

// Seed runs the reset. The shared run is detached from any one caller's
// context; each caller only stops waiting when its own context ends.
func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	ch := s.group.DoChan("seed", func() (interface{}, error) {
		return s.seed(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return SeedResult{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return SeedResult{}, r.Err
		}
		if r.Shared {
			s.log.Debug("seed run shared with concurrent caller")
		}
		return r.Val.(SeedResult), nil
	}
}

// SeedIfEmpty seeds only when there are no invoices yet.
func (s *SeedService) SeedIfEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Invoice{}).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count invoices: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.Seed(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SeedService) seed(ctx context.Context) (SeedResult, error) {
	now := s.now()
	data := demoDataset(now)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// children first so foreign keys never dangle mid-transaction
		for _, table := range []interface{}{&models.LineItem{}, &models.Payment{}, &models.Invoice{}, &models.Customer{}, &models.Vendor{}} {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return fmt.Errorf("clear %T: %w", table, err)
			}
		}

		if err := tx.Create(&data.vendors).Error; err != nil {
			return fmt.Errorf("insert vendors: %w", err)
		}
		if err := tx.Create(&data.customers).Error; err != nil {
			return fmt.Errorf("insert customers: %w", err)
		}

		data.link()

		if err := tx.Omit("LineItems", "Payments").Create(&data.invoices).Error; err != nil {
			return fmt.Errorf("insert invoices: %w", err)
		}

		data.linkChildren()

		if err := tx.Create(&data.lineItems).Error; err != nil {
			return fmt.Errorf("insert line items: %w", err)
		}
		if err := tx.Create(&data.payments).Error; err != nil {
			return fmt.Errorf("insert payments: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("seed failed", logger.FieldError, err)
		return SeedResult{}, err
	}

	res := SeedResult{
		Message:   "Database seeded successfully!",
		Vendors:   len(data.vendors),
		Customers: len(data.customers),
		Invoices:  len(data.invoices),
		LineItems: len(data.lineItems),
		Payments:  len(data.payments),
	}
	s.log.Info("database seeded",
		"vendors", res.Vendors, "customers", res.Customers, "invoices", res.Invoices,
		"line_items", res.LineItems, "payments", res.Payments)
	return res, nil
}

// dataset holds the demo rows plus the positional references between them;
// IDs are only known after the parents are inserted.
type dataset struct {
	vendors   []models.Vendor
	customers []models.Customer
	invoices  []models.Invoice
	lineItems []models.LineItem
	payments  []models.Payment

	invoiceVendor   []int
	invoiceCustomer []int
	lineItemInvoice []int
	paymentInvoice  []int
}

func (d *dataset) link() {
	for i := range d.invoices {
		d.invoices[i].VendorID = d.vendors[d.invoiceVendor[i]].ID
		customerID := d.customers[d.invoiceCustomer[i]].ID
		d.invoices[i].CustomerID = &customerID
	}
}

func (d *dataset) linkChildren() {
	for i := range d.lineItems {
		d.lineItems[i].InvoiceID = d.invoices[d.lineItemInvoice[i]].ID
	}
	for i := range d.payments {
		d.payments[i].InvoiceID = d.invoices[d.paymentInvoice[i]].ID
	}
}

func demoDataset(now time.Time) *dataset {
	days := func(n int) time.Time { return utils.DaysFrom(now, n) }

	d := &dataset{
		vendors: []models.Vendor{
			{Name: "TechCorp Solutions", Email: "billing@techcorp.com", Category: "Technology", Phone: "+1-555-0101"},
			{Name: "Office Supplies Inc", Email: "orders@officesupplies.com", Category: "Office Supplies", Phone: "+1-555-0102"},
			{Name: "Marketing Agency Pro", Email: "invoices@marketingpro.com", Category: "Marketing", Phone: "+1-555-0103"},
			{Name: "Legal Services LLC", Email: "billing@legalservices.com", Category: "Legal", Phone: "+1-555-0104"},
			{Name: "Cloud Hosting Co", Email: "billing@cloudhosting.com", Category: "Technology", Phone: "+1-555-0105"},
			{Name: "Consulting Group", Email: "finance@consultinggroup.com", Category: "Consulting", Phone: "+1-555-0106"},
			{Name: "Software Licensing", Email: "licenses@softwarelicensing.com", Category: "Technology", Phone: "+1-555-0107"},
			{Name: "Facility Management", Email: "billing@facilitymanagement.com", Category: "Facilities", Phone: "+1-555-0108"},
		},
		customers: []models.Customer{
			{Name: "Acme Corporation", Email: "ap@acmecorp.com", CompanyName: "Acme Corp"},
			{Name: "Global Industries", Email: "finance@globalind.com", CompanyName: "Global Industries Ltd"},
		},
		invoices: []models.Invoice{
			{InvoiceNumber: "INV-2024-001", IssueDate: days(-30), DueDate: days(15), TotalAmount: 15000, Status: models.InvoiceStatusPending, Currency: "USD", Description: "Software development services"},
			{InvoiceNumber: "INV-2024-002", IssueDate: days(-25), DueDate: days(-10), TotalAmount: 2500, Status: models.InvoiceStatusPaid, Currency: "USD", Description: "Office supplies monthly order"},
			{InvoiceNumber: "INV-2024-003", IssueDate: days(-20), DueDate: days(10), TotalAmount: 8500, Status: models.InvoiceStatusPending, Currency: "USD", Description: "Marketing campaign Q1"},
			{InvoiceNumber: "INV-2024-004", IssueDate: days(-15), DueDate: days(-5), TotalAmount: 12000, Status: models.InvoiceStatusOverdue, Currency: "USD", Description: "Legal consultation services"},
			{InvoiceNumber: "INV-2024-005", IssueDate: days(-10), DueDate: days(20), TotalAmount: 3200, Status: models.InvoiceStatusPending, Currency: "USD", Description: "Cloud hosting services"},
			{InvoiceNumber: "INV-2024-006", IssueDate: days(-5), DueDate: days(25), TotalAmount: 7800, Status: models.InvoiceStatusPending, Currency: "USD", Description: "Business consulting"},
		},
		invoiceVendor:   []int{0, 1, 2, 3, 4, 5},
		invoiceCustomer: []int{0, 0, 1, 0, 1, 0},
		lineItems: []models.LineItem{
			{Description: "Frontend Development", Quantity: 100, UnitPrice: 120, TotalPrice: 12000, Category: "Development"},
			{Description: "Backend Development", Quantity: 25, UnitPrice: 120, TotalPrice: 3000, Category: "Development"},
			{Description: "Paper Supplies", Quantity: 50, UnitPrice: 25, TotalPrice: 1250, Category: "Office"},
			{Description: "Printer Cartridges", Quantity: 10, UnitPrice: 125, TotalPrice: 1250, Category: "Office"},
			{Description: "Digital Marketing Campaign", Quantity: 1, UnitPrice: 8500, TotalPrice: 8500, Category: "Marketing"},
		},
		lineItemInvoice: []int{0, 0, 1, 1, 2},
		payments: []models.Payment{
			{Amount: 2500, PaymentDate: days(-5), PaymentMethod: "Bank Transfer", Status: models.PaymentStatusCompleted},
		},
		paymentInvoice: []int{1},
	}
	return d
}
