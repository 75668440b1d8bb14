package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEmptyVendorName = errors.New("vendor name must not be empty")

type Vendor struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"not null;index:idx_vendors_name" json:"name"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Address  string    `json:"address,omitempty"`
	Category string    `gorm:"not null;default:''" json:"category"`
	TaxID    string    `json:"taxId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return v.Validate()
}

func (v *Vendor) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrEmptyVendorName
	}
	return nil
}
