package controllers

import (
	"net/http"

	"invoice-insights-backend/logger"
	"invoice-insights-backend/services"
	"invoice-insights-backend/utils"

	"github.com/gin-gonic/gin"
)

type SeedController struct {
	Seeder *services.SeedService
	Log    *logger.Logger
}

func NewSeedController(seeder *services.SeedService, log *logger.Logger) *SeedController {
	return &SeedController{Seeder: seeder, Log: log.WithComponent(logger.ComponentSeed)}
}

// Seed wipes the invoice tables and reloads the demo dataset.
func (sc *SeedController) Seed(c *gin.Context) {
	res, err := sc.Seeder.Seed(c.Request.Context())
	if err != nil {
		sc.Log.Error("seed request failed", logger.FieldError, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to seed database")
		return
	}
	c.JSON(http.StatusOK, res)
}
