package config

import (
	"time"

	"invoice-insights-backend/logger"

	"github.com/gin-gonic/gin"
)

// SlowRequestThreshold marks requests that get an extra warning line.
const SlowRequestThreshold = 200 * time.Millisecond

func PerformanceLogger(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent(logger.ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		reqLog := log.With(
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			logger.FieldDuration, latency.Milliseconds(),
		)
		reqLog.Info("request",
			logger.FieldStatus, c.Writer.Status(),
			logger.FieldClientIP, c.ClientIP(),
		)

		if latency > SlowRequestThreshold {
			reqLog.Warn("slow request")
		}
	}
}
