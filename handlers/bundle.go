package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle centralizes the handlers route registration needs.
type HandlerBundle struct {
	// Chat endpoints.
	ProcessMessageHandler gin.HandlerFunc

	// History endpoints.
	GetUserHistoryHandler gin.HandlerFunc
}
