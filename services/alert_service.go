package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoice-insights-backend/logger"
	"invoice-insights-backend/models"
	"invoice-insights-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const DefaultAlertListLimit = 50

var ErrAlertsDisabled = errors.New("payment alerts are not configured")

// MessageSender delivers a text message and reports the channel used.
type MessageSender interface {
	Send(ctx context.Context, to, body string) (channel, sid string, err error)
}

// TwilioSender sends through Twilio, preferring WhatsApp for E.164 numbers
// when a WhatsApp sender is configured.
type TwilioSender struct {
	client       *twilio.RestClient
	from         string
	whatsAppFrom string
}

func NewTwilioSender(accountSID, authToken, from, whatsAppFrom string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from:         from,
		whatsAppFrom: whatsAppFrom,
	}
}

func (t *TwilioSender) Send(ctx context.Context, to, body string) (string, string, error) {
	channel := "sms"
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)

	if t.whatsAppFrom != "" && utils.IsE164(to) {
		channel = "whatsapp"
		params.SetTo("whatsapp:" + utils.NormalizePhone(to))
		params.SetFrom("whatsapp:" + t.whatsAppFrom)
	} else {
		params.SetTo(to)
		params.SetFrom(t.from)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return channel, "", err
	}
	if resp.Sid == nil {
		return channel, "", nil
	}
	return channel, *resp.Sid, nil
}

type AlertRunResult struct {
	Checked int `json:"checked"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// AlertService notifies the finance contact about pending invoices that fall
// due within the configured window. Each invoice is alerted at most once.
type AlertService struct {
	db         *gorm.DB
	sender     MessageSender
	to         string
	windowDays int
	log        *logger.Logger
	now        func() time.Time
}

// NewAlertService returns a service; a nil sender disables delivery.
func NewAlertService(db *gorm.DB, sender MessageSender, to string, windowDays int, log *logger.Logger) *AlertService {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &AlertService{
		db:         db,
		sender:     sender,
		to:         to,
		windowDays: windowDays,
		log:        log.WithComponent(logger.ComponentAlerts),
		now:        time.Now,
	}
}

func (s *AlertService) Enabled() bool {
	return s.sender != nil && s.to != ""
}

// StartScheduler registers the daily run on a new cron instance and starts
// it. The caller stops it on shutdown.
func (s *AlertService) StartScheduler(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.Run(context.Background()); err != nil {
			s.log.Error("scheduled alert run failed", logger.FieldError, err)
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule alerts %q: %w", spec, err)
	}
	c.Start()
	s.log.Info("payment alert scheduler started", "schedule", spec)
	return c, nil
}

// DueInvoices lists pending invoices due between the start of today and the
// end of the window that have no successful alert yet. Days are UTC days,
// matching alertMessage.
func (s *AlertService) DueInvoices(ctx context.Context) ([]models.Invoice, error) {
	today := utils.BeginningOfDay(s.now().UTC())
	until := utils.DaysFrom(today, s.windowDays+1)

	alerted := s.db.Model(&models.PaymentAlert{}).
		Select("invoice_id").
		Where("status = ?", models.AlertStatusSent)

	var invoices []models.Invoice
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.InvoiceStatusPending).
		Where("due_date >= ? AND due_date < ?", today, until).
		Where("id NOT IN (?)", alerted).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("load due invoices: %w", err)
	}
	return invoices, nil
}

func (s *AlertService) Run(ctx context.Context) (AlertRunResult, error) {
	if !s.Enabled() {
		return AlertRunResult{}, ErrAlertsDisabled
	}
	s.log.Info("starting payment alert run")

	invoices, err := s.DueInvoices(ctx)
	if err != nil {
		return AlertRunResult{}, err
	}

	var vendors []models.Vendor
	if err := s.db.WithContext(ctx).Find(&vendors).Error; err != nil {
		return AlertRunResult{}, fmt.Errorf("load vendors: %w", err)
	}
	names := make(map[string]string, len(vendors))
	for _, v := range vendors {
		names[v.ID.String()] = v.Name
	}

	res := AlertRunResult{Checked: len(invoices)}
	for _, inv := range invoices {
		vendor, ok := names[inv.VendorID.String()]
		if !ok {
			vendor = UnknownVendorName
		}
		message := s.alertMessage(inv, vendor)

		channel, sid, sendErr := s.sender.Send(ctx, s.to, message)
		alert := models.PaymentAlert{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Message:       message,
			Channel:       channel,
			Status:        models.AlertStatusSent,
			MessageSID:    sid,
			SentAt:        s.now(),
		}
		if sendErr != nil {
			s.log.Warn("failed to send payment alert", logger.FieldInvoice, inv.InvoiceNumber, logger.FieldError, sendErr)
			alert.Status = models.AlertStatusFailed
			alert.ErrorMessage = sendErr.Error()
			res.Failed++
		} else {
			s.log.Info("payment alert sent", logger.FieldInvoice, inv.InvoiceNumber, "sid", sid, "channel", channel)
			res.Sent++
		}

		if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
			s.log.Error("failed to log payment alert", logger.FieldInvoice, inv.InvoiceNumber, logger.FieldError, err)
		}
	}

	s.log.Info("payment alert run completed", "checked", res.Checked, "sent", res.Sent, "failed", res.Failed)
	return res, nil
}

// Recent returns the latest alert attempts, newest first.
func (s *AlertService) Recent(ctx context.Context, limit int) ([]models.PaymentAlert, error) {
	if limit <= 0 {
		limit = DefaultAlertListLimit
	}
	alerts := []models.PaymentAlert{}
	if err := s.db.WithContext(ctx).Order("sent_at DESC").Limit(limit).Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("load payment alerts: %w", err)
	}
	return alerts, nil
}

func (s *AlertService) alertMessage(inv models.Invoice, vendor string) string {
	days := utils.DaysBetween(s.now().UTC(), inv.DueDate.UTC())
	var when string
	switch days {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	default:
		when = fmt.Sprintf("in %d days", days)
	}
	return fmt.Sprintf("Payment due %s: %s to %s for %s %.2f on %s",
		when, inv.InvoiceNumber, vendor, inv.Currency, inv.TotalAmount, utils.DayKey(inv.DueDate))
}
