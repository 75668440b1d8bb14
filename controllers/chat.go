package controllers

import (
	"net/http"
	"strings"

	"invoice-insights-backend/logger"
	"invoice-insights-backend/models"
	"invoice-insights-backend/services"
	"invoice-insights-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatInput struct {
	Query string `json:"query" binding:"required"`
}

type ChatController struct {
	Chat *services.ChatService
	Log  *logger.Logger
}

func NewChatController(chat *services.ChatService, log *logger.Logger) *ChatController {
	return &ChatController{Chat: chat, Log: log.WithComponent(logger.ComponentChat)}
}

// Ask answers a natural-language question with a canned payload and logs the
// exchange under the caller's account, or anonymously.
func (cc *ChatController) Ask(c *gin.Context) {
	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Query) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Query is required")
		return
	}

	var userID *uuid.UUID
	if id, ok := utils.CurrentUserID(c); ok {
		userID = &id
	}

	resp, err := cc.Chat.Ask(c.Request.Context(), userID, input.Query)
	if err != nil {
		cc.Log.Error("chat request failed", logger.FieldError, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to process query, please try again")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns the caller's recent questions; anonymous callers get an
// empty list.
func (cc *ChatController) History(c *gin.Context) {
	limit, ok := queryLimit(c, services.DefaultChatHistoryLimit)
	if !ok {
		return
	}
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusOK, []models.ChatHistory{})
		return
	}

	history, err := cc.Chat.History(c.Request.Context(), userID, limit)
	if err != nil {
		cc.Log.Error("chat history failed", logger.FieldUserID, userID.String(), logger.FieldError, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load chat history")
		return
	}
	c.JSON(http.StatusOK, history)
}
