package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AlertStatusSent   = "sent"
	AlertStatusFailed = "failed"
)

// PaymentAlert records one attempt to notify the finance contact about a
// pending invoice coming due.
type PaymentAlert struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID     uuid.UUID `gorm:"type:uuid;index;not null" json:"invoiceId"`
	InvoiceNumber string    `gorm:"not null" json:"invoiceNumber"`
	Message       string    `gorm:"type:text" json:"message"`
	Channel       string    `gorm:"type:varchar(20)" json:"channel"` // sms, whatsapp
	Status        string    `gorm:"type:varchar(20);index" json:"status"`
	ErrorMessage  string    `gorm:"type:text" json:"errorMessage,omitempty"`
	MessageSID    string    `json:"messageSid,omitempty"`
	SentAt        time.Time `json:"sentAt"`
}

func (a *PaymentAlert) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.SentAt = a.SentAt.UTC()
	return
}
