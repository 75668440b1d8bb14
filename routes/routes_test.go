package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoice-insights-backend/config"
	"invoice-insights-backend/logger"
	"invoice-insights-backend/services"
	"invoice-insights-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.BcryptCost = bcrypt.MinCost
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: config.UTCNow,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.AutoMigrate(db))

	log := logger.Discard()
	return SetupRouter(Deps{
		Config: config.Config{
			JWTSecret:   "test-secret",
			JWTExpiry:   time.Hour,
			CORSOrigins: []string{"http://localhost:3000"},
		},
		DB:        db,
		Log:       log,
		Analytics: services.NewAnalyticsService(db),
		Chat:      services.NewChatService(db, log),
		Seeder:    services.NewSeedService(db, log),
		Alerts:    services.NewAlertService(db, nil, "", 7, log),
	})
}

func do(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func register(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "name": "Finance", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := decode[map[string]any](t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthz(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	r := setupRouter(t)
	token := register(t, r, "Finance@Example.com")

	w := do(r, http.MethodPost, "/auth/register", "", gin.H{
		"email": "finance@example.com", "name": "Again", "password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/auth/register", "", gin.H{"email": "not-an-email", "name": "x", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "", gin.H{"email": "finance@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "", gin.H{"email": "finance@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=")

	w = do(r, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]map[string]any](t, w)
	assert.Equal(t, "finance@example.com", me["user"]["email"])
	assert.NotContains(t, w.Body.String(), "password")

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/auth/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/auth/me", "garbage", nil).Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/api/analytics/overview", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalSpend":0,"totalInvoices":0,"documentsUploaded":0,"avgInvoiceValue":0}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/seed", "", nil).Code)

	token := register(t, r, "ops@example.com")
	w = do(r, http.MethodPost, "/api/seed", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	seeded := decode[services.SeedResult](t, w)
	assert.Equal(t, services.SeedResult{
		Message: "Database seeded successfully!", Vendors: 8, Customers: 2, Invoices: 6, LineItems: 5, Payments: 1,
	}, seeded)

	stats := decode[services.OverviewStats](t, do(r, http.MethodGet, "/api/analytics/overview", "", nil))
	assert.Equal(t, 49000.0, stats.TotalSpend)
	assert.Equal(t, 6, stats.TotalInvoices)

	trends := decode[[]services.TrendPoint](t, do(r, http.MethodGet, "/api/analytics/trends", "", nil))
	assert.NotEmpty(t, trends)

	top := decode[[]services.VendorSpend](t, do(r, http.MethodGet, "/api/analytics/top-vendors?limit=3", "", nil))
	require.Len(t, top, 3)
	assert.Equal(t, "TechCorp Solutions", top[0].Name)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/analytics/top-vendors?limit=ten", "", nil).Code)
	assert.Len(t, decode[[]services.VendorSpend](t, do(r, http.MethodGet, "/api/analytics/top-vendors?limit=0", "", nil)), 6)

	categories := decode[[]services.CategorySpend](t, do(r, http.MethodGet, "/api/analytics/category-spend", "", nil))
	assert.Equal(t, "Technology", categories[0].Category)

	outflow := decode[[]services.OutflowPoint](t, do(r, http.MethodGet, "/api/analytics/cash-outflow", "", nil))
	assert.Len(t, outflow, 4)

	invoices := decode[[]map[string]any](t, do(r, http.MethodGet, "/api/invoices?search=TechCorp", "", nil))
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-2024-001", invoices[0]["invoiceNumber"])
	assert.Equal(t, "TechCorp Solutions", invoices[0]["vendorName"])
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/invoices?limit=1.5", "", nil).Code)

	w = do(r, http.MethodGet, "/api/dashboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	bundle := decode[map[string]json.RawMessage](t, w)
	for _, key := range []string{"stats", "trends", "topVendors", "categorySpend", "cashOutflow"} {
		assert.Contains(t, bundle, key)
	}
}

func TestChatEndpoints(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/api/chat", "", gin.H{"query": "What is our total spend?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sql":"SELECT SUM(totalAmount) as total_spend FROM invoices;","results":[{"total_spend":49000}],"chartType":"metric"}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/chat", "", gin.H{"query": "   "}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/chat", "", gin.H{}).Code)

	w = do(r, http.MethodGet, "/api/chat/history", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	token := register(t, r, "analyst@example.com")
	w = do(r, http.MethodPost, "/api/chat", token, gin.H{"query": "show pending invoices"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "table", decode[map[string]any](t, w)["chartType"])

	history := decode[[]map[string]any](t, do(r, http.MethodGet, "/api/chat/history", token, nil))
	require.Len(t, history, 1)
	assert.Equal(t, "show pending invoices", history[0]["query"])

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/chat/history?limit=x", token, nil).Code)
}

func TestAlertEndpoints(t *testing.T) {
	r := setupRouter(t)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/alerts", "", nil).Code)

	token := register(t, r, "alerts@example.com")
	w := do(r, http.MethodGet, "/api/alerts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodPost, "/api/alerts/run", token, nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	r := setupRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
