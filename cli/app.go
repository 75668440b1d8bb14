package cli

import (
	"fmt"

	"invoice-insights-backend/config"
	"invoice-insights-backend/logger"
	"invoice-insights-backend/services"
	"invoice-insights-backend/utils"

	"gorm.io/gorm"
)

// app is the wired set of dependencies shared by every subcommand.
type app struct {
	cfg       config.Config
	log       *logger.Logger
	db        *gorm.DB
	analytics *services.AnalyticsService
	chat      *services.ChatService
	seeder    *services.SeedService
	alerts    *services.AlertService
}

func loadConfig() config.Config {
	cfg := config.Load()
	if port != "" {
		cfg.Port = port
	}
	if dbDriver != "" {
		cfg.DBDriver = dbDriver
	}
	if dbURL != "" {
		cfg.DBURL = dbURL
	}
	return cfg
}

func newApp() (*app, error) {
	cfg := loadConfig()

	log := logger.New(logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})
	logger.SetDefault(log)

	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := config.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.WithComponent(logger.ComponentStorage).Info("database ready", "driver", cfg.DBDriver)

	var sender services.MessageSender
	if cfg.AlertsEnabled() {
		if !utils.ValidatePhone(cfg.AlertPhoneNumber) {
			log.Warn("ALERT_PHONE_NUMBER does not look like an international number", "number", cfg.AlertPhoneNumber)
		}
		sender = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.TwilioWhatsAppNumber)
	} else {
		log.Info("payment alerts disabled: Twilio credentials or ALERT_PHONE_NUMBER missing")
	}

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		analytics: services.NewAnalyticsService(db),
		chat:      services.NewChatService(db, log),
		seeder:    services.NewSeedService(db, log),
		alerts:    services.NewAlertService(db, sender, cfg.AlertPhoneNumber, cfg.AlertWindowDays, log),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}
