package services

import (
	"context"
	"testing"
	"time"

	"invoice-insights-backend/logger"
	"invoice-insights-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var fixedNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Vendor{}, &models.Customer{}, &models.Invoice{},
		&models.LineItem{}, &models.Payment{}, &models.ChatHistory{}, &models.PaymentAlert{},
	))
	return db
}

// seedTestDB loads the demo dataset with the clock pinned to fixedNow.
func seedTestDB(t *testing.T, db *gorm.DB) *SeedService {
	t.Helper()
	s := NewSeedService(db, logger.Discard())
	s.now = func() time.Time { return fixedNow }
	_, err := s.Seed(context.Background())
	require.NoError(t, err)
	return s
}
