package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatHistory is an append-only log of chat queries. UserID is nil for
// anonymous callers.
type ChatHistory struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       *uuid.UUID     `gorm:"type:uuid;index:idx_chat_histories_user" json:"userId,omitempty"`
	Query        string         `gorm:"type:text;not null" json:"query"`
	Response     datatypes.JSON `gorm:"not null" json:"response"`
	SQLGenerated string         `gorm:"type:text" json:"sqlGenerated,omitempty"`
	Timestamp    time.Time      `gorm:"column:asked_at;not null;index" json:"timestamp"`
}

func (h *ChatHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.Timestamp = h.Timestamp.UTC()
	return nil
}
