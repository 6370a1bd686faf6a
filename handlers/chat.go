package handlers

import (
	"net/http"

	"staybot/models"
	"staybot/services/chat"
	"staybot/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes the conversational engine over HTTP.
type ChatHandler struct {
	Svc chat.ChatService
}

func NewChatHandler(svc chat.ChatService) *ChatHandler {
	return &ChatHandler{Svc: svc}
}

// ProcessMessageHandler handles one conversational turn.
func (h *ChatHandler) ProcessMessageHandler(c *gin.Context) {
	lodgingID := c.Param("lodgingID")
	if lodgingID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing lodging id", "the lodgingID path parameter is required")
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	resp, err := h.Svc.ProcessMessage(c.Request.Context(), lodgingID, req)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process message", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}
