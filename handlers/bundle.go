package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the handlers the route registrar wires up.
type HandlerBundle struct {
	// Voice webhook.
	TurnHandler gin.HandlerFunc

	// Admin endpoints.
	GetSessionHandler   gin.HandlerFunc
	ResetSessionHandler gin.HandlerFunc
}
