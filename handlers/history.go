package handlers

import (
	"net/http"
	"strconv"

	"staybot/services/chat"
	"staybot/utils"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves persisted chat transcripts.
type HistoryHandler struct {
	Svc chat.ChatService
}

func NewHistoryHandler(svc chat.ChatService) *HistoryHandler {
	return &HistoryHandler{Svc: svc}
}

// GetUserHistoryHandler returns a page of a visitor's transcript for one
// lodging, newest first.
func (h *HistoryHandler) GetUserHistoryHandler(c *gin.Context) {
	lodgingID := c.Param("lodgingID")
	userID := c.Param("userID")
	if lodgingID == "" || userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing path parameters", "lodgingID and userID are required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.Svc.GetUserHistory(c.Request.Context(), lodgingID, userID, page, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch chat history", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries, "page": page, "limit": limit})
}
