package routes

import (
	"context"
	"net/http"
	"time"

	"invoice-insights-backend/config"
	"invoice-insights-backend/controllers"
	"invoice-insights-backend/logger"
	"invoice-insights-backend/services"
	"invoice-insights-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything the handlers need.
type Deps struct {
	Config    config.Config
	DB        *gorm.DB
	Log       *logger.Logger
	Analytics *services.AnalyticsService
	Chat      *services.ChatService
	Seeder    *services.SeedService
	Alerts    *services.AlertService
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		// cors panics on an empty origin list
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	r.Use(config.PerformanceLogger(d.Log))

	r.GET("/healthz", healthCheck(d.DB))

	authController := controllers.NewAuthController(d.DB, d.Config.JWTSecret, d.Config.JWTExpiry)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.GET("/me", utils.AuthMiddleware(d.Config.JWTSecret), authController.Me)
	}

	requireAuth := utils.AuthMiddleware(d.Config.JWTSecret)
	optionalAuth := utils.OptionalAuthMiddleware(d.Config.JWTSecret)

	api := r.Group("/api")
	{
		// Analytics routes
		reportController := controllers.NewReportController(d.Analytics, d.Log)
		analytics := api.Group("/analytics")
		{
			analytics.GET("/overview", reportController.GetOverview)
			analytics.GET("/trends", reportController.GetTrends)
			analytics.GET("/top-vendors", reportController.GetTopVendors)
			analytics.GET("/category-spend", reportController.GetCategorySpend)
			analytics.GET("/cash-outflow", reportController.GetCashOutflow)
		}
		api.GET("/invoices", reportController.GetInvoices)
		api.GET("/dashboard", reportController.GetDashboardOverview)

		seedController := controllers.NewSeedController(d.Seeder, d.Log)
		api.POST("/seed", requireAuth, seedController.Seed)

		// Chat routes
		chatController := controllers.NewChatController(d.Chat, d.Log)
		chat := api.Group("/chat", optionalAuth)
		{
			chat.POST("", chatController.Ask)
			chat.GET("/history", chatController.History)
		}

		// Payment alert routes
		alertController := controllers.NewAlertController(d.Alerts, d.Log)
		alerts := api.Group("/alerts", requireAuth)
		{
			alerts.GET("", alertController.GetAlerts)
			alerts.POST("/run", alertController.RunAlerts)
		}
	}

	return r
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			utils.RespondWithError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
