package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"invoice-insights-backend/logger"
	"invoice-insights-backend/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChartType string

const (
	ChartMetric ChartType = "metric"
	ChartBar    ChartType = "bar"
	ChartTable  ChartType = "table"
)

const DefaultChatHistoryLimit = 20

// ChatResponse is what the chat endpoint returns and what gets logged.
type ChatResponse struct {
	SQL       string           `json:"sql"`
	Results   []map[string]any `json:"results"`
	ChartType ChartType        `json:"chartType"`
}

func totalSpendResponse() ChatResponse {
	return ChatResponse{
		SQL:       "SELECT SUM(totalAmount) as total_spend FROM invoices;",
		Results:   []map[string]any{{"total_spend": 49000}},
		ChartType: ChartMetric,
	}
}

func topVendorsResponse() ChatResponse {
	return ChatResponse{
		SQL: "SELECT v.name, SUM(i.totalAmount) as spend FROM invoices i JOIN vendors v ON i.vendorId = v._id GROUP BY v.name ORDER BY spend DESC LIMIT 5;",
		Results: []map[string]any{
			{"name": "TechCorp Solutions", "spend": 15000},
			{"name": "Legal Services LLC", "spend": 12000},
			{"name": "Marketing Agency Pro", "spend": 8500},
			{"name": "Consulting Group", "spend": 7800},
			{"name": "Cloud Hosting Co", "spend": 3200},
		},
		ChartType: ChartBar,
	}
}

func pendingInvoicesResponse() ChatResponse {
	return ChatResponse{
		SQL: "SELECT invoiceNumber, totalAmount, dueDate FROM invoices WHERE status = 'pending';",
		Results: []map[string]any{
			{"invoiceNumber": "INV-2024-001", "totalAmount": 15000, "dueDate": "2024-02-15"},
			{"invoiceNumber": "INV-2024-003", "totalAmount": 8500, "dueDate": "2024-02-10"},
			{"invoiceNumber": "INV-2024-005", "totalAmount": 3200, "dueDate": "2024-02-20"},
			{"invoiceNumber": "INV-2024-006", "totalAmount": 7800, "dueDate": "2024-02-25"},
		},
		ChartType: ChartTable,
	}
}

func noMatchResponse() ChatResponse {
	return ChatResponse{
		SQL:       "-- AI-generated SQL query would appear here",
		Results:   []map[string]any{{"message": "No matching data found"}},
		ChartType: ChartTable,
	}
}

// MatchQuery picks the canned response for query. Checks run in priority
// order: total+spend, top+vendor, pending, then the no-match payload.
func MatchQuery(query string) ChatResponse {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "total") && strings.Contains(q, "spend"):
		return totalSpendResponse()
	case strings.Contains(q, "top") && strings.Contains(q, "vendor"):
		return topVendorsResponse()
	case strings.Contains(q, "pending"):
		return pendingInvoicesResponse()
	default:
		return noMatchResponse()
	}
}

type ChatService struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewChatService(db *gorm.DB, log *logger.Logger) *ChatService {
	return &ChatService{db: db, log: log.WithComponent(logger.ComponentChat), now: time.Now}
}

// Ask answers query and appends the exchange to the chat history. userID is
// nil for anonymous callers.
func (s *ChatService) Ask(ctx context.Context, userID *uuid.UUID, query string) (ChatResponse, error) {
	resp := MatchQuery(query)

	payload, err := json.Marshal(resp)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("encode chat response: %w", err)
	}

	entry := models.ChatHistory{
		UserID:       userID,
		Query:        query,
		Response:     datatypes.JSON(payload),
		SQLGenerated: resp.SQL,
		Timestamp:    s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return ChatResponse{}, fmt.Errorf("save chat history: %w", err)
	}

	attrs := []any{"chart_type", resp.ChartType}
	if userID != nil {
		attrs = append(attrs, logger.FieldUserID, userID.String())
	}
	s.log.Debug("chat query answered", attrs...)
	return resp, nil
}

// History returns the user's most recent chat entries, newest first.
func (s *ChatService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatHistory, error) {
	if limit <= 0 {
		limit = DefaultChatHistoryLimit
	}
	history := []models.ChatHistory{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("asked_at DESC").
		Limit(limit).
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	return history, nil
}
