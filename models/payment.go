package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID     uuid.UUID     `gorm:"type:uuid;index;not null" json:"invoiceId"`
	Amount        float64       `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDate   time.Time     `gorm:"not null" json:"paymentDate"`
	PaymentMethod string        `gorm:"not null" json:"paymentMethod"`
	Reference     string        `json:"reference,omitempty"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null" json:"status"`
}

func (p *Payment) BeforeSave(tx *gorm.DB) error {
	p.PaymentDate = p.PaymentDate.UTC()
	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
