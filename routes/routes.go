package routes

import (
	"net/http"
	"time"

	"voicedesk/handlers"
	"voicedesk/middleware"
	"voicedesk/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterVoiceRoutes registers the per-turn webhook endpoint.
func RegisterVoiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/voice")
	{
		api.POST("/turn", hb.TurnHandler)
	}
}

// RegisterAdminRoutes registers the operator endpoints. Session reset
// lives only here; nothing on the voice path can clear a session.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.AdminAuthMiddleware())
		api.GET("/sessions/:callID", hb.GetSessionHandler)
		api.POST("/sessions/:callID/reset", hb.ResetSessionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes sets up all route groups on the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Admin-Token", "X-Operator"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	RegisterVoiceRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
