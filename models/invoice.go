package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var (
	ErrInvalidStatus  = errors.New("invalid invoice status")
	ErrNegativeAmount = errors.New("invoice total must not be negative")
)

// Valid reports whether s is one of the four known statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a bill owed to a vendor. VendorID is a plain reference with no
// foreign-key constraint so that analytics can report dangling vendors.
type Invoice struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNumber string        `gorm:"not null;index:idx_invoices_number" json:"invoiceNumber"`
	VendorID      uuid.UUID     `gorm:"type:uuid;not null;index:idx_invoices_vendor" json:"vendorId"`
	CustomerID    *uuid.UUID    `gorm:"type:uuid;index" json:"customerId,omitempty"`
	IssueDate     time.Time     `gorm:"not null;index:idx_invoices_issue_date" json:"issueDate"`
	DueDate       time.Time     `gorm:"not null" json:"dueDate"`
	TotalAmount   float64       `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Status        InvoiceStatus `gorm:"type:varchar(20);not null;index:idx_invoices_status" json:"status"`
	Currency      string        `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Description   string        `json:"description,omitempty"`

	LineItems []LineItem `gorm:"foreignKey:InvoiceID" json:"lineItems,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return i.Validate()
}

// BeforeSave stores dates in UTC so text-compared sqlite columns sort
// chronologically.
func (i *Invoice) BeforeSave(tx *gorm.DB) error {
	i.IssueDate = i.IssueDate.UTC()
	i.DueDate = i.DueDate.UTC()
	return nil
}

func (i *Invoice) Validate() error {
	if i.TotalAmount < 0 {
		return fmt.Errorf("%s: %w", i.InvoiceNumber, ErrNegativeAmount)
	}
	if !i.Status.Valid() {
		return fmt.Errorf("%s: %w %q", i.InvoiceNumber, ErrInvalidStatus, i.Status)
	}
	return nil
}

type LineItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;index;not null" json:"invoiceId"`
	Description string    `gorm:"not null" json:"description"`
	Quantity    float64   `gorm:"type:decimal(12,3);not null;default:1" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	TotalPrice  float64   `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	Category    string    `json:"category,omitempty"`
}

func (li *LineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}
